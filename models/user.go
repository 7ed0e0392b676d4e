package models

import "time"

type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DeviceSession binds a kiosk or QR device to a tenant and, optionally, a store.
type DeviceSession struct {
	ID         string    `json:"session_id"`
	TenantID   string    `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	StoreID    *string   `json:"store_id,omitempty"`
	StoreName  *string   `json:"store_name,omitempty"`
	DeviceName string    `json:"device_name"`
	UserID     string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type DeviceAuthResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	Device      DeviceSession `json:"device"`
}
