package handler

import (
	"time"

	"github.com/msomdec/recipe-box/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the server.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// CatalogItemDTO is the JSON representation of a tag or ingredient.
type CatalogItemDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toCatalogItemDTO(item domain.CatalogItem) CatalogItemDTO {
	return CatalogItemDTO{ID: item.ID, Name: item.Name}
}

func toCatalogItemDTOs(items []domain.CatalogItem) []CatalogItemDTO {
	dtos := make([]CatalogItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toCatalogItemDTO(item)
	}
	return dtos
}

// RecipeDTO is the condensed recipe used in listings.
type RecipeDTO struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	TimeMinutes int              `json:"time_minutes"`
	Price       string           `json:"price"`
	Link        string           `json:"link"`
	Tags        []CatalogItemDTO `json:"tags"`
}

// RecipeDetailDTO adds the description to RecipeDTO.
type RecipeDetailDTO struct {
	RecipeDTO
	Description string `json:"description"`
}

func toRecipeDTO(r domain.Recipe) RecipeDTO {
	return RecipeDTO{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        toCatalogItemDTOs(r.Tags),
	}
}

func toRecipeDTOs(recipes []domain.Recipe) []RecipeDTO {
	dtos := make([]RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = toRecipeDTO(r)
	}
	return dtos
}

func toRecipeDetailDTO(r *domain.Recipe) RecipeDetailDTO {
	return RecipeDetailDTO{RecipeDTO: toRecipeDTO(*r), Description: r.Description}
}
