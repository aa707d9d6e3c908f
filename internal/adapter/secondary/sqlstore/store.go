package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"client-manager/internal/domain"
	"client-manager/internal/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	slotRegistry = "registry"
	slotDraft    = "draft"

	stateRowID = 1

	opTimeout = 10 * time.Second
)

// Store implements domain.StateRepository on a SQL database.
// Every Save replaces the whole snapshot inside one transaction.
type Store struct {
	db *sqlx.DB
}

// New connects to the database and applies pending migrations.
// driver is "sqlite3" or "postgres".
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if driver == "sqlite3" {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type stateRow struct {
	Label string `db:"label"`
	Warn  bool   `db:"warn"`
}

type deviceRow struct {
	Slot           string  `db:"slot"`
	Position       int     `db:"position"`
	Name           string  `db:"name"`
	FrequencyMin   float64 `db:"frequency_min"`
	FrequencyMax   float64 `db:"frequency_max"`
	PendingRemoval bool    `db:"pending_removal"`
}

type sectorRow struct {
	Slot           string `db:"slot"`
	DevicePosition int    `db:"device_position"`
	Position       int    `db:"position"`
	Label          string `db:"label"`
}

// Load implements domain.StateRepository.
func (s *Store) Load() (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.LoadContext(ctx)
}

// Save implements domain.StateRepository.
func (s *Store) Save(snap domain.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.SaveContext(ctx, snap)
}

// LoadContext reads the snapshot. An empty database yields the defaults.
func (s *Store) LoadContext(ctx context.Context) (domain.Snapshot, error) {
	var st stateRow
	err := s.db.GetContext(ctx, &st, s.db.Rebind(`SELECT label, warn FROM app_state WHERE id = ?`), stateRowID)
	if errors.Is(err, sql.ErrNoRows) {
		logging.Debugf("empty database, starting from defaults")
		return domain.DefaultSnapshot(), nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("loading state: %w", err)
	}

	var devices []deviceRow
	if err := s.db.SelectContext(ctx, &devices, `
		SELECT slot, position, name, frequency_min, frequency_max, pending_removal
		FROM devices ORDER BY slot, position`); err != nil {
		return domain.Snapshot{}, fmt.Errorf("loading devices: %w", err)
	}

	var sectors []sectorRow
	if err := s.db.SelectContext(ctx, &sectors, `
		SELECT slot, device_position, position, label
		FROM device_sectors ORDER BY slot, device_position, position`); err != nil {
		return domain.Snapshot{}, fmt.Errorf("loading sectors: %w", err)
	}

	type key struct {
		slot     string
		position int
	}
	labels := make(map[key][]domain.Sector)
	for _, r := range sectors {
		k := key{r.Slot, r.DevicePosition}
		labels[k] = append(labels[k], domain.Sector(r.Label))
	}

	snap := domain.Snapshot{
		Label:   st.Label,
		Warn:    st.Warn,
		Devices: make([]domain.Device, 0, len(devices)),
	}
	for _, r := range devices {
		d := domain.Device{
			Name:           r.Name,
			FrequencyMin:   r.FrequencyMin,
			FrequencyMax:   r.FrequencyMax,
			PendingRemoval: r.PendingRemoval,
			Sectors:        labels[key{r.Slot, r.Position}],
		}
		if d.Sectors == nil {
			d.Sectors = []domain.Sector{}
		}
		switch r.Slot {
		case slotDraft:
			snap.Draft = &d
		default:
			snap.Devices = append(snap.Devices, d)
		}
	}
	return snap, nil
}

// SaveContext replaces the stored snapshot.
func (s *Store) SaveContext(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"device_sectors", "devices", "app_state"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO app_state (id, label, warn) VALUES (?, ?, ?)`),
		stateRowID, snap.Label, snap.Warn); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	for i, d := range snap.Devices {
		if err := insertDevice(ctx, tx, slotRegistry, i, d); err != nil {
			return err
		}
	}
	if snap.Draft != nil {
		if err := insertDevice(ctx, tx, slotDraft, 0, *snap.Draft); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}
	logging.Tracef("saved %d devices to database", len(snap.Devices))
	return nil
}

func insertDevice(ctx context.Context, tx *sqlx.Tx, slot string, position int, d domain.Device) error {
	row := deviceRow{
		Slot:           slot,
		Position:       position,
		Name:           d.Name,
		FrequencyMin:   d.FrequencyMin,
		FrequencyMax:   d.FrequencyMax,
		PendingRemoval: d.PendingRemoval,
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO devices (slot, position, name, frequency_min, frequency_max, pending_removal)
		VALUES (:slot, :position, :name, :frequency_min, :frequency_max, :pending_removal)`, row); err != nil {
		return fmt.Errorf("saving device %q: %w", d.Name, err)
	}
	for j, label := range d.Sectors {
		sr := sectorRow{Slot: slot, DevicePosition: position, Position: j, Label: string(label)}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO device_sectors (slot, device_position, position, label)
			VALUES (:slot, :device_position, :position, :label)`, sr); err != nil {
			return fmt.Errorf("saving sector of %q: %w", d.Name, err)
		}
	}
	return nil
}

// gooseLogger routes migration output through the application logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) { logging.Debugf(format, v...) }
func (gooseLogger) Fatalf(format string, v ...interface{}) { logging.Errorf(format, v...) }
