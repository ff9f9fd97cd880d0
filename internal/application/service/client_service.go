package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
	"github.com/sangkips/stockpilot-api/pkg/validation"
)

// MinClientSearchLength is the shortest term a client search accepts
const MinClientSearchLength = 3

// ClientService handles client-related operations
type ClientService struct {
	clients registry[entity.Client]
	logger  *slog.Logger
}

// NewClientService creates a new client service
func NewClientService(store repository.CollectionStore, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		clients: registry[entity.Client]{store: store, collection: repository.CollectionClients, label: "Client"},
		logger:  logger.With("component", "client_service"),
	}
}

// ClientInput holds the editable client fields
type ClientInput struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	CPFCNPJ string `json:"cpfCnpj"`
	Address string `json:"address"`
}

func (in *ClientInput) applyTo(c *entity.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.CPFCNPJ = strings.TrimSpace(in.CPFCNPJ)
	c.Address = strings.TrimSpace(in.Address)
}

// CreateClient registers a client
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	client := entity.Client{ID: entity.NewID()}
	input.applyTo(&client)
	if err := s.clients.insert(ctx, client, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "client created", "client_id", client.ID)
	return &client, nil
}

// UpdateClient replaces the client's fields
func (s *ClientService) UpdateClient(ctx context.Context, id string, input *ClientInput) (*entity.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return s.clients.modify(ctx, id, func(c *entity.Client, _ []entity.Client) error {
		input.applyTo(c)
		return nil
	})
}

// DeleteClient removes a client. Sales and receivables keep the dangling id.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clients.remove(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "client deleted", "client_id", id)
	return nil
}

// GetClient returns a client by id
func (s *ClientService) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	return s.clients.get(ctx, id)
}

// ListClients returns clients ordered by name, paginated
func (s *ClientService) ListClients(ctx context.Context, search string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Client], error) {
	clients, err := s.SearchClients(ctx, search)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(clients, params), nil
}

// SearchClients matches name, tax id or phone. An empty term returns every
// client; a shorter term than MinClientSearchLength is rejected.
func (s *ClientService) SearchClients(ctx context.Context, term string) ([]entity.Client, error) {
	term = strings.TrimSpace(term)
	if term != "" && len([]rune(term)) < MinClientSearchLength {
		return nil, apperror.NewFieldError("search", "must be at least 3 characters")
	}

	clients, err := s.clients.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Client, 0, len(clients))
	for _, c := range clients {
		if term == "" || containsFold(c.Name, term) || strings.Contains(c.CPFCNPJ, term) || strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	sortByName(out, func(c entity.Client) string { return c.Name })
	return out, nil
}
