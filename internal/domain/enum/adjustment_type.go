package enum

// AdjustmentType is the direction of a manual cash movement
type AdjustmentType string

const (
	AdjustmentTypeAdd    AdjustmentType = "add"
	AdjustmentTypeRemove AdjustmentType = "remove"
)

func (t AdjustmentType) String() string {
	return string(t)
}

// IsValid reports whether t is a known adjustment type
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentTypeAdd || t == AdjustmentTypeRemove
}
