// Package remote implements the fetch side of the sync: day-scoped calls
// against the upstream relational source's reporting procedures.
package remote

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plantops/yield-rewind/internal/config"
)

// Reporting procedures and views on the upstream source.
const (
	yieldProc = "gen_opnl_yld_rpt_data"
	salesProc = "gen_ship_by_prdt_sum_data"
	tankView  = "rcnc_tank_valu_rvw"
)

// Client fetches day-granularity batches from the remote source.
type Client struct {
	db *gorm.DB
}

// NewClient prepares the remote connection. The connection is not verified
// here; availability is checked per sync run via Ping, so serve mode can
// start while the source is unreachable.
func NewClient(cfg config.Remote) (*Client, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		cfg.User, cfg.Password, cfg.Server, cfg.Port, cfg.Name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure remote connection: %w", err)
	}
	return &Client{db: db}, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the remote source is reachable. A failure here is a fatal
// run error, as opposed to a per-day fetch error.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("remote connection unavailable: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot reach remote source: %w", err)
	}
	return nil
}

// FetchYieldDay runs the yield reporting procedure for a single day.
func (c *Client) FetchYieldDay(ctx context.Context, date string) ([]YieldRow, error) {
	var rows []YieldRow
	err := c.db.WithContext(ctx).
		Raw(fmt.Sprintf("CALL %s(?, ?)", yieldProc), date, date).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("yield fetch for %s: %w", date, err)
	}
	for i := range rows {
		rows[i].normalize()
	}
	return rows, nil
}

// FetchSalesDay runs the sales summary procedure for a single day.
func (c *Client) FetchSalesDay(ctx context.Context, date string) ([]SalesRow, error) {
	var rows []SalesRow
	err := c.db.WithContext(ctx).
		Raw(fmt.Sprintf("CALL %s(?, ?)", salesProc), date, date).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales fetch for %s: %w", date, err)
	}
	for i := range rows {
		rows[i].normalize()
	}
	return rows, nil
}

// FetchTankRange queries the tank reconciliation view for a whole date
// window at once. Tank data has no procedure; it is a direct range query.
func (c *Client) FetchTankRange(ctx context.Context, start, end string) ([]TankRow, error) {
	query := fmt.Sprintf(`
		SELECT
			DATE(rcnc_end_tmsp) AS date,
			vess_nme AS tank_name,
			prdt_nme AS product_name,
			COALESCE(ucrt_vol_qty, 0) AS hc_volume,
			COALESCE(h2o_vol_qty, 0) AS h2o_volume
		FROM %s
		WHERE rcnc_end_tmsp BETWEEN ? AND ?
		ORDER BY rcnc_end_tmsp, vess_nme`, tankView)

	var rows []TankRow
	err := c.db.WithContext(ctx).Raw(query, start, end).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tank fetch for %s..%s: %w", start, end, err)
	}
	for i := range rows {
		rows[i].normalize()
	}
	return rows, nil
}
