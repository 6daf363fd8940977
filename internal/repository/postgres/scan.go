package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clutchparts/search-service/internal/domain"
)

func scanParts(rows pgx.Rows) ([]domain.Part, error) {
	parts := []domain.Part{}
	for rows.Next() {
		var p domain.Part
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Reference,
			&p.CategoryID,
			&p.BrandID,
			&p.QuantitySale,
			&p.Display,
		); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}
	return parts, nil
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Alias, &c.Level); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
