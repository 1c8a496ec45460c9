// Package service holds the business rules for every API vertical. Services
// take repositories and capabilities through their constructors and return
// *models.AppError values the HTTP layer maps to status codes.
package service
