package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/powertrain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type runRecord struct {
	ID         string `gorm:"primaryKey;size:96"`
	Preset     string `gorm:"size:64"`
	Controller string `gorm:"size:64"`
	Timestamp  time.Time
	Seed       int64
	Dt         float64
	Duration   float64
	Steps      int
	Digest     string `gorm:"size:16"`
	Metrics    string
	Engine     string
}

func (runRecord) TableName() string { return "runs" }

type sampleRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index;size:96"`
	Seq         int
	Time        float64
	RPM         float64
	Throttle    float64
	Gear        int
	Boost       float64
	Torque      float64
	AFR         float64
	SpeedKMH    float64
	CoolantTemp float64
	LimpMode    bool
	Damaged     bool
	Backfire    bool
	FuelCut     bool
	Brake       bool
}

func (sampleRecord) TableName() string { return "telemetry" }

// SQLStore keeps runs in a relational database through gorm.
type SQLStore struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

func gormConfig(batch int) *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        batch,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// OpenSQLite opens (or creates) a pure-Go SQLite database file. An empty
// path opens a private in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*SQLStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(2000))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if path == "" {
		// every pooled connection would get its own empty memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info().Str("path", path).Msg("using SQLite run store")
	return &SQLStore{DB: db, Logger: log}, nil
}

func OpenPostgres(dsn string, log zerolog.Logger) (*SQLStore, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormConfig(10000))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	log.Info().Msg("connected to Postgres run store")
	return &SQLStore{DB: db, Logger: log}, nil
}

func (s *SQLStore) Init() error {
	s.Logger.Debug().Msg("migrating schema")
	return s.DB.AutoMigrate(&runRecord{}, &sampleRecord{})
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Save(meta RunMetadata, tels []powertrain.Telemetry) (string, error) {
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Preset)
	}
	rec, err := toRecord(meta)
	if err != nil {
		return "", err
	}

	samples := make([]sampleRecord, len(tels))
	for i, tel := range tels {
		samples[i] = toSample(meta.ID, i, tel)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(samples) == 0 {
			return nil
		}
		return tx.CreateInBatches(samples, 1000).Error
	})
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", meta.ID, err)
	}

	s.Logger.Debug().Str("run", meta.ID).Int("samples", len(samples)).Msg("run saved")
	return meta.ID, nil
}

func (s *SQLStore) List() ([]RunMetadata, error) {
	var recs []runRecord
	if err := s.DB.Order("timestamp").Find(&recs).Error; err != nil {
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(recs))
	for _, rec := range recs {
		meta, err := fromRecord(rec)
		if err != nil {
			s.Logger.Warn().Err(err).Str("run", rec.ID).Msg("skipping unreadable run")
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *SQLStore) Load(runID string) (*RunMetadata, error) {
	var rec runRecord
	if err := s.DB.First(&rec, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	meta, err := fromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *SQLStore) LoadTelemetry(runID string) ([]powertrain.Telemetry, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	var samples []sampleRecord
	if err := s.DB.Where("run_id = ?", runID).Order("seq").Find(&samples).Error; err != nil {
		return nil, err
	}

	tels := make([]powertrain.Telemetry, len(samples))
	for i, smp := range samples {
		tels[i] = fromSample(smp)
	}
	return tels, nil
}

func toRecord(meta RunMetadata) (runRecord, error) {
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return runRecord{}, err
	}
	engine, err := json.Marshal(meta.Engine)
	if err != nil {
		return runRecord{}, err
	}
	return runRecord{
		ID:         meta.ID,
		Preset:     meta.Preset,
		Controller: meta.Controller,
		Timestamp:  meta.Timestamp,
		Seed:       meta.Seed,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      meta.Steps,
		Digest:     meta.Digest,
		Metrics:    string(metrics),
		Engine:     string(engine),
	}, nil
}

func fromRecord(rec runRecord) (RunMetadata, error) {
	meta := RunMetadata{
		ID:         rec.ID,
		Preset:     rec.Preset,
		Controller: rec.Controller,
		Timestamp:  rec.Timestamp,
		Seed:       rec.Seed,
		Dt:         rec.Dt,
		Duration:   rec.Duration,
		Steps:      rec.Steps,
		Digest:     rec.Digest,
	}
	if rec.Metrics != "" {
		if err := json.Unmarshal([]byte(rec.Metrics), &meta.Metrics); err != nil {
			return meta, fmt.Errorf("metrics: %w", err)
		}
	}
	if rec.Engine != "" {
		if err := json.Unmarshal([]byte(rec.Engine), &meta.Engine); err != nil {
			return meta, fmt.Errorf("engine: %w", err)
		}
	}
	return meta, nil
}

func toSample(runID string, seq int, tel powertrain.Telemetry) sampleRecord {
	return sampleRecord{
		RunID:       runID,
		Seq:         seq,
		Time:        tel.Time,
		RPM:         tel.RPM,
		Throttle:    tel.Throttle,
		Gear:        tel.Gear,
		Boost:       tel.Boost,
		Torque:      tel.Torque,
		AFR:         tel.AFR,
		SpeedKMH:    tel.SpeedKMH,
		CoolantTemp: tel.CoolantTemp,
		LimpMode:    tel.LimpMode,
		Damaged:     tel.Damaged,
		Backfire:    tel.Backfire,
		FuelCut:     tel.FuelCut,
		Brake:       tel.Brake,
	}
}

func fromSample(s sampleRecord) powertrain.Telemetry {
	return powertrain.Telemetry{
		Time:        s.Time,
		RPM:         s.RPM,
		Throttle:    s.Throttle,
		Gear:        s.Gear,
		Boost:       s.Boost,
		Torque:      s.Torque,
		AFR:         s.AFR,
		SpeedKMH:    s.SpeedKMH,
		CoolantTemp: s.CoolantTemp,
		LimpMode:    s.LimpMode,
		Damaged:     s.Damaged,
		Backfire:    s.Backfire,
		FuelCut:     s.FuelCut,
		Brake:       s.Brake,
	}
}
