// Package jsonfile loads catalog and interest-signal fixtures from JSON
// files on disk. It is the default data backend for the CLI.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

// Default file names inside the data directory.
const (
	CatalogFile        = "marketplace_products.json"
	InstagramFile      = "instagram_saves.json"
	PinterestFile      = "pinterest_boards.json"
	AbandonedCartsFile = "abandoned_carts.json"
)

// Store reads all data files from a single directory. Missing signal
// files are treated as empty sources; a missing catalog file is an error.
type Store struct {
	dir string
}

// New creates a Store over dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// productRecord mirrors the catalog file layout, where the rating lives
// in a nested ratings object.
type productRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Ratings     *struct {
		AverageRating *float64 `json:"average_rating"`
		Count         int      `json:"count"`
	} `json:"ratings"`
}

// Products implements ports.CatalogSource. File order is preserved.
func (s *Store) Products(_ context.Context) ([]domain.Product, error) {
	var records []productRecord
	if err := s.readFile(CatalogFile, &records); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p := domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Brand:       r.Brand,
			Price:       r.Price,
			Currency:    r.Currency,
			Stock:       r.Stock,
			Description: r.Description,
			Tags:        r.Tags,
		}
		if r.Ratings != nil {
			p.Rating = r.Ratings.AverageRating
		}
		products = append(products, p)
	}
	return products, nil
}

type instagramFeed struct {
	UserID     string `json:"user_id"`
	SavedItems []struct {
		PostID              string `json:"post_id"`
		Caption             string `json:"caption"`
		ImageURL            string `json:"image_url"`
		DetectedProductName string `json:"detected_product_name"`
	} `json:"saved_items"`
}

type pinterestFeed struct {
	UserID string `json:"user_id"`
	Boards []struct {
		BoardID   string `json:"board_id"`
		BoardName string `json:"board_name"`
		Pins      []struct {
			PinID       string `json:"pin_id"`
			Description string `json:"description"`
			Link        string `json:"link"`
		} `json:"pins"`
	} `json:"boards"`
}

// SocialSaves implements ports.SignalSource: Instagram saves first, then
// Pinterest pins in board order. Either file may be absent.
func (s *Store) SocialSaves(_ context.Context) ([]ports.RawSave, error) {
	var saves []ports.RawSave

	var insta instagramFeed
	if err := s.readOptional(InstagramFile, &insta); err != nil {
		return nil, err
	}
	for _, item := range insta.SavedItems {
		saves = append(saves, ports.RawSave{
			Caption: item.Caption,
			Details: map[string]any{
				"post_id":   item.PostID,
				"image_url": item.ImageURL,
				"platform":  "instagram",
			},
		})
	}

	var pins pinterestFeed
	if err := s.readOptional(PinterestFile, &pins); err != nil {
		return nil, err
	}
	for _, board := range pins.Boards {
		for _, pin := range board.Pins {
			saves = append(saves, ports.RawSave{
				Caption: pin.Description,
				Details: map[string]any{
					"pin_id":     pin.PinID,
					"board_name": board.BoardName,
					"link":       pin.Link,
					"platform":   "pinterest",
				},
			})
		}
	}
	return saves, nil
}

type cartRecord struct {
	CartID string `json:"cart_id"`
	Items  []struct {
		ProductID string  `json:"product_id"`
		Quantity  int     `json:"quantity"`
		AddedAt   string  `json:"added_at"`
		Price     float64 `json:"price_when_added"`
	} `json:"items"`
}

// AbandonedCartItems implements ports.SignalSource, flattening every cart
// into its lines. The file may be absent.
func (s *Store) AbandonedCartItems(_ context.Context) ([]ports.CartItem, error) {
	var carts []cartRecord
	if err := s.readOptional(AbandonedCartsFile, &carts); err != nil {
		return nil, err
	}

	var items []ports.CartItem
	for _, cart := range carts {
		for _, line := range cart.Items {
			items = append(items, ports.CartItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Details: map[string]any{
					"cart_id":  cart.CartID,
					"added_at": line.AddedAt,
				},
			})
		}
	}
	return items, nil
}

func (s *Store) readFile(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (s *Store) readOptional(name string, out any) error {
	err := s.readFile(name, out)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
