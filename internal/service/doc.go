// Package service implements the application's business operations on top
// of the store interfaces: account registration and login, admin approval,
// the role-gated task lifecycle, and usage statistics. Every protected
// operation performs its own authorization check before touching data.
package service
