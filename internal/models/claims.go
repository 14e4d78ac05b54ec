package models

import "github.com/golang-jwt/jwt/v5"

// CustomerClaims is the JWT payload identifying the calling customer.
type CustomerClaims struct {
	CustomerID string `json:"customer_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}
