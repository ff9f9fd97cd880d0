package validation

import (
	"testing"

	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type orderInput struct {
	Name     string          `json:"name" validate:"required,min=2"`
	Method   string          `json:"method" validate:"oneof=cash pix"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0"`
	Items    []lineInput     `json:"items" validate:"required,min=1,dive"`
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindValidation, appErr.Kind)

	out := make(map[string]string, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(orderInput{
		Name:     "Counter",
		Method:   "pix",
		Discount: decimal.NewFromInt(2),
		Items:    []lineInput{{ProductID: "p1", Quantity: 1}},
	})
	assert.NoError(t, err)
}

func TestStruct_FieldPathsFollowJSONTags(t *testing.T) {
	err := Struct(orderInput{
		Name:     "A",
		Method:   "cheque",
		Discount: decimal.NewFromInt(-1),
		Items:    []lineInput{{Quantity: 0}},
	})

	assert.Equal(t, map[string]string{
		"name":               "must be at least 2 characters",
		"method":             "must be one of: cash pix",
		"discount":           "must be greater than or equal to 0",
		"items[0].productId": "is required",
		"items[0].quantity":  "must be greater than 0",
	}, fieldMessages(t, err))
}

func TestStruct_EmptySlice(t *testing.T) {
	err := Struct(orderInput{Name: "Counter", Method: "cash", Items: []lineInput{}})

	assert.Equal(t, "must contain at least 1 item(s)", fieldMessages(t, err)["items"])
}
