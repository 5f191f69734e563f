package models

import "time"

// Product товар каталога. Цены хранятся в минимальных единицах валюты.
type Product struct {
	ID               int64     `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Price            int64     `json:"price"`
	OriginalPrice    *int64    `json:"original_price"`
	Category         string    `json:"category"`
	TechStack        []string  `json:"tech_stack"`
	Features         []string  `json:"features"`
	ImageURL         *string   `json:"image_url"`
	DemoURL          *string   `json:"demo_url"`
	IsActive         bool      `json:"is_active"`
	Featured         bool      `json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProductSummary краткое представление товара, прикладываемое к заказам.
type ProductSummary struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ImageURL *string `json:"image_url"`
	Price    int64   `json:"price"`
}

// ProductFilter параметры выборки каталога.
type ProductFilter struct {
	Category        string
	Search          string
	Featured        *bool
	Limit           int
	IncludeInactive bool
}

// ProductPatch частичное обновление товара; nil означает «не менять».
type ProductPatch struct {
	Slug             *string   `json:"slug"`
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"short_description"`
	Price            *int64    `json:"price" validate:"omitempty,min=0"`
	OriginalPrice    *int64    `json:"original_price" validate:"omitempty,min=0"`
	Category         *string   `json:"category"`
	TechStack        *[]string `json:"tech_stack"`
	Features         *[]string `json:"features"`
	ImageURL         *string   `json:"image_url"`
	DemoURL          *string   `json:"demo_url"`
	IsActive         *bool     `json:"is_active"`
	Featured         *bool     `json:"featured"`
}

// Apply переносит заданные поля патча в товар.
func (p ProductPatch) Apply(dst *Product) {
	if p.Slug != nil {
		dst.Slug = *p.Slug
	}
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.ShortDescription != nil {
		dst.ShortDescription = *p.ShortDescription
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		dst.OriginalPrice = p.OriginalPrice
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.TechStack != nil {
		dst.TechStack = *p.TechStack
	}
	if p.Features != nil {
		dst.Features = *p.Features
	}
	if p.ImageURL != nil {
		dst.ImageURL = p.ImageURL
	}
	if p.DemoURL != nil {
		dst.DemoURL = p.DemoURL
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
}
