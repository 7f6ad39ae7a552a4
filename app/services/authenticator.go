// Package services holds the pieces between controllers and repositories:
// credential checking, the live dashboard feed, and the orphaned-image
// sweep.
package services

import (
	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/auth"
)

// Authenticator checks credentials for both login flows. A nil result
// with nil error means "no match" — unknown email and wrong password are
// indistinguishable to callers, so the API can answer both with the same
// 401.
type Authenticator struct {
	admins    *repositories.AdminRepository
	customers *repositories.CustomerRepository
}

func NewAuthenticator(admins *repositories.AdminRepository, customers *repositories.CustomerRepository) *Authenticator {
	return &Authenticator{admins: admins, customers: customers}
}

func (a *Authenticator) AuthenticateAdmin(email, password string) (*models.Admin, error) {
	admin, err := a.admins.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, nil
	}
	return admin, nil
}

func (a *Authenticator) AuthenticateCustomer(email, password string) (*models.Customer, error) {
	customer, err := a.customers.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if customer == nil || !auth.CheckPassword(customer.PasswordHash, password) {
		return nil, nil
	}
	return customer, nil
}
