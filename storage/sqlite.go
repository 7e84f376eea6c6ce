package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, rec GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, mean_fitness, std_dev, score, ticks, species)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			std_dev = excluded.std_dev,
			score = excluded.score,
			ticks = excluded.ticks,
			species = excluded.species
	`, rec.RunID, rec.Generation, rec.BestFitness, rec.MeanFitness, rec.StdDev, rec.Score, rec.Ticks, rec.Species)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, best_fitness, mean_fitness, std_dev, score, ticks, species
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		rec := GenerationRecord{RunID: runID}
		if err := rows.Scan(&rec.Generation, &rec.BestFitness, &rec.MeanFitness, &rec.StdDev, &rec.Score, &rec.Ticks, &rec.Species); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveChampion(ctx context.Context, rec ChampionRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO champions (run_id, generation, genome_id, fitness, genome)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			generation = excluded.generation,
			genome_id = excluded.genome_id,
			fitness = excluded.fitness,
			genome = excluded.genome
	`, rec.RunID, rec.Generation, rec.GenomeID, rec.Fitness, rec.Genome)
	return err
}

func (s *SQLiteStore) Champion(ctx context.Context, runID string) (ChampionRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return ChampionRecord{}, false, err
	}

	rec := ChampionRecord{RunID: runID}
	err = db.QueryRowContext(ctx, `
		SELECT generation, genome_id, fitness, genome FROM champions WHERE run_id = ?
	`, runID).Scan(&rec.Generation, &rec.GenomeID, &rec.Fitness, &rec.Genome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChampionRecord{}, false, nil
		}
		return ChampionRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			std_dev REAL NOT NULL,
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			species INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE TABLE IF NOT EXISTS champions (
			run_id TEXT PRIMARY KEY,
			generation INTEGER NOT NULL,
			genome_id INTEGER NOT NULL,
			fitness REAL NOT NULL,
			genome TEXT NOT NULL
		);
	`)
	return err
}
