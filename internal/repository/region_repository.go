package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/internship-registration/internal/model"
)

// ErrProvinceNotFound is returned when a province id does not exist.
var ErrProvinceNotFound = errors.New("province not found")

// RegionRepo serves the read-only provinces/cities reference tables used for
// placement preferences and participant addresses.
type RegionRepo struct {
	db *sql.DB
}

func NewRegionRepo(db *sql.DB) *RegionRepo { return &RegionRepo{db: db} }

// ListProvinces returns all provinces ordered by name.
func (r *RegionRepo) ListProvinces(ctx context.Context) ([]model.Province, error) {
	const q = `SELECT id, name FROM provinces ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Province, 0)
	for rows.Next() {
		var p model.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCitiesByProvince returns the cities of one province ordered by name.
// ErrProvinceNotFound is returned when the province does not exist, so the
// handler can distinguish an empty province from a bad id.
func (r *RegionRepo) ListCitiesByProvince(ctx context.Context, provinceID uint64) ([]model.City, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM provinces WHERE id=? LIMIT 1", provinceID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProvinceNotFound
		}
		return nil, err
	}
	const q = `SELECT id, province_id, name FROM cities WHERE province_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, provinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.City, 0)
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.ProvinceID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
