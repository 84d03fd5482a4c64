package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bistro/internal/model"
)

// InsertRestaurant appends a committed record and everything it owns.
func InsertRestaurant(db *sql.DB, r model.Restaurant) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC()
	if !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt.UTC()
	}

	if _, err := tx.Exec(
		`INSERT INTO restaurants (id, name, created_at) VALUES (?, ?, ?)`,
		r.ID, r.Name, createdAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}

	for i, m := range r.Menus {
		if _, err := tx.Exec(
			`INSERT INTO menus (id, restaurant_id, position, name) VALUES (?, ?, ?, ?)`,
			m.ID, r.ID, i, m.Name,
		); err != nil {
			return fmt.Errorf("failed to insert menu: %w", err)
		}
		for j, it := range m.Items {
			if _, err := tx.Exec(
				`INSERT INTO menu_items (id, menu_id, position, name, price) VALUES (?, ?, ?, ?, ?)`,
				it.ID, m.ID, j, it.Name, it.Price,
			); err != nil {
				return fmt.Errorf("failed to insert menu item: %w", err)
			}
		}
	}

	for i, l := range r.Links {
		if _, err := tx.Exec(
			`INSERT INTO links (id, restaurant_id, position, title, url) VALUES (?, ?, ?, ?, ?)`,
			l.ID, r.ID, i, l.Title, l.URL,
		); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	for i, img := range r.Images {
		if _, err := tx.Exec(
			`INSERT INTO images (id, restaurant_id, position, src, alt) VALUES (?, ?, ?, ?, ?)`,
			img.ID, r.ID, i, img.Src, img.Alt,
		); err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// likeEscaper makes the filter match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListRestaurants returns committed records, most recently added first. A
// non-empty filter matches restaurant names, menu names, item names and link
// titles.
func ListRestaurants(db *sql.DB, filter string) ([]model.Restaurant, error) {
	query := `
		SELECT r.id, r.name, r.created_at
		FROM restaurants r
		WHERE (? = ''
			OR r.name LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM menus m WHERE m.restaurant_id = r.id AND m.name LIKE ? ESCAPE '\')
			OR EXISTS (
				SELECT 1 FROM menu_items mi JOIN menus m ON m.id = mi.menu_id
				WHERE m.restaurant_id = r.id AND mi.name LIKE ? ESCAPE '\')
			OR EXISTS (SELECT 1 FROM links l WHERE l.restaurant_id = r.id AND l.title LIKE ? ESCAPE '\'))
		ORDER BY r.seq DESC
	`

	pattern := "%" + likeEscaper.Replace(filter) + "%"
	rows, err := db.Query(query, filter, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	results := []model.Restaurant{}
	for rows.Next() {
		var r model.Restaurant
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Name, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}
	// The pool holds one connection; release it before loading children.
	rows.Close()

	for i := range results {
		if err := loadChildren(db, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CountRestaurants returns the number of committed records.
func CountRestaurants(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM restaurants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}
	return n, nil
}

func loadChildren(db *sql.DB, r *model.Restaurant) error {
	menus, err := loadMenus(db, r.ID)
	if err != nil {
		return err
	}
	links, err := loadLinks(db, r.ID)
	if err != nil {
		return err
	}
	images, err := loadImages(db, r.ID)
	if err != nil {
		return err
	}
	r.Menus, r.Links, r.Images = menus, links, images
	return nil
}

func loadMenus(db *sql.DB, restaurantID string) ([]model.Menu, error) {
	rows, err := db.Query(
		`SELECT id, name FROM menus WHERE restaurant_id = ? ORDER BY position`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get menus: %w", err)
	}
	defer rows.Close()

	menus := []model.Menu{}
	index := make(map[string]int)
	for rows.Next() {
		m := model.Menu{Items: []model.MenuItem{}}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		index[m.ID] = len(menus)
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menus: %w", err)
	}
	rows.Close()

	itemRows, err := db.Query(`
		SELECT mi.menu_id, mi.id, mi.name, mi.price
		FROM menu_items mi
		JOIN menus m ON m.id = mi.menu_id
		WHERE m.restaurant_id = ?
		ORDER BY m.position, mi.position
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var menuID string
		var it model.MenuItem
		if err := itemRows.Scan(&menuID, &it.ID, &it.Name, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if i, ok := index[menuID]; ok {
			menus[i].Items = append(menus[i].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}
	return menus, nil
}

func loadLinks(db *sql.DB, restaurantID string) ([]model.Link, error) {
	rows, err := db.Query(
		`SELECT id, title, url FROM links WHERE restaurant_id = ? ORDER BY position`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.URL); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}
	return links, nil
}

func loadImages(db *sql.DB, restaurantID string) ([]model.Image, error) {
	rows, err := db.Query(
		`SELECT id, src, alt FROM images WHERE restaurant_id = ? ORDER BY position`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.Src, &img.Alt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}
