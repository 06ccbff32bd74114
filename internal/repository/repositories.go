package repository

import (
	"github.com/erlove000/business-services/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Payments *PaymentRepository
}

// NewRepositories constructs the repository container over the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Payments: NewPaymentRepository(s.DB.Pool, s.Logger, s.Config.Search),
	}
}
