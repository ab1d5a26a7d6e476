package sipm

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
)

// PropertiesStore resolves a named sensor-property profile into a
// validated SensorProperties snapshot. A profile groups one full set of
// properties under a name, so a batch run can select "vendor_A_run3"
// instead of hand-assembling every field.
type PropertiesStore interface {
	Load(profile string) (SensorProperties, error)
}

// MapPropertiesStore is an in-memory PropertiesStore, typically populated
// from the JSON properties file named by Configuration.PropertiesFile.
type MapPropertiesStore struct {
	profiles map[string]SensorProperties
}

// NewMapPropertiesStore builds a store from a profile-name to properties
// map, e.g. unmarshaled from a JSON document.
func NewMapPropertiesStore(profiles map[string]SensorProperties) *MapPropertiesStore {
	return &MapPropertiesStore{profiles: profiles}
}

func (m *MapPropertiesStore) Load(profile string) (SensorProperties, error) {
	p, ok := m.profiles[profile]
	if !ok {
		return SensorProperties{}, &ErrConfigurationInvalid{
			Field: "properties_profile",
			Err:   fmt.Errorf("no profile named %q", profile),
		}
	}
	return p, nil
}

// DBPropertiesStore resolves profiles from a MySQL properties table over
// the same sqlx/mysql connection pattern as the rest of this codebase's
// database access.
type DBPropertiesStore struct {
	db *sqlx.DB
}

// ConnectPropertiesStore opens a MySQL connection using the given
// Configuration's DB fields and returns a DBPropertiesStore backed by it.
func ConnectPropertiesStore(cfg Configuration) (*DBPropertiesStore, error) {
	dbURI := fmt.Sprintf("%s:%s@(%s)/%s?parseTime=true", cfg.User, cfg.Passwd, cfg.Host, cfg.DBName)
	db, err := sqlx.Connect("mysql", dbURI)
	if err != nil {
		return nil, fmt.Errorf("connecting to properties database: %w", err)
	}
	return &DBPropertiesStore{db: db}, nil
}

// propertiesRow mirrors the flat row layout of the SensorProperties table;
// sqlx.StructScan fills it directly from the query result.
type propertiesRow struct {
	NSideCells            int     `db:"n_side_cells"`
	SamplingTime          float64 `db:"sampling_time"`
	SignalLength          float64 `db:"signal_length"`
	RisingTime            float64 `db:"rising_time"`
	FallingTimeFast       float64 `db:"falling_time_fast"`
	FallingTimeSlow       float64 `db:"falling_time_slow"`
	SlowComponentFraction float64 `db:"slow_component_fraction"`
	Dcr                   float64 `db:"dcr"`
	Xt                    float64 `db:"xt"`
	Ap                    float64 `db:"ap"`
	TauApFast             float64 `db:"tau_ap_fast"`
	TauApSlow             float64 `db:"tau_ap_slow"`
	ApSlowFraction        float64 `db:"ap_slow_fraction"`
	CellRecovery          float64 `db:"cell_recovery"`
	Ccgv                  float64 `db:"ccgv"`
	Snr                   float64 `db:"snr"`
	PdeType               int     `db:"pde_type"`
	Pde                   float64 `db:"pde"`
	HitDistribution       int     `db:"hit_distribution"`
}

func (s *DBPropertiesStore) Load(profile string) (SensorProperties, error) {
	const query = `SELECT n_side_cells, sampling_time, signal_length, rising_time,
		falling_time_fast, falling_time_slow, slow_component_fraction, dcr, xt, ap,
		tau_ap_fast, tau_ap_slow, ap_slow_fraction, cell_recovery, ccgv, snr,
		pde_type, pde, hit_distribution
		FROM SensorProperties WHERE profile = ?`

	rows, err := s.db.Queryx(query, profile)
	if err != nil {
		return SensorProperties{}, fmt.Errorf("querying properties profile %q: %w", profile, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return SensorProperties{}, &ErrConfigurationInvalid{
			Field: "properties_profile",
			Err:   fmt.Errorf("no profile named %q", profile),
		}
	}

	var row propertiesRow
	if err := rows.StructScan(&row); err != nil {
		return SensorProperties{}, fmt.Errorf("scanning properties profile %q: %w", profile, err)
	}

	p := SensorProperties{
		NSideCells:            row.NSideCells,
		SamplingTime:          row.SamplingTime,
		SignalLength:          row.SignalLength,
		RisingTime:            row.RisingTime,
		FallingTimeFast:       row.FallingTimeFast,
		FallingTimeSlow:       row.FallingTimeSlow,
		SlowComponentFraction: row.SlowComponentFraction,
		Dcr:                   row.Dcr,
		Xt:                    row.Xt,
		Ap:                    row.Ap,
		TauApFast:             row.TauApFast,
		TauApSlow:             row.TauApSlow,
		ApSlowFraction:        row.ApSlowFraction,
		CellRecovery:          row.CellRecovery,
		Ccgv:                  row.Ccgv,
		Snr:                   row.Snr,
		PdeType:               PdeType(row.PdeType),
		Pde:                   row.Pde,
		HitDistribution:       HitDistribution(row.HitDistribution),
	}
	return p, p.Validate()
}

// Close releases the underlying DB connection.
func (s *DBPropertiesStore) Close() error {
	return s.db.Close()
}
