// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"time"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// RATING STORE
// =============================================================================

// GetOrCreateRating returns the rating row for the model name, seeding a
// fresh row at the default ELO on first sight.
func (s *Store) GetOrCreateRating(modelName string) (*model.ModelRating, error) {
	// Seed first so the read below always finds a row. ON CONFLICT keeps
	// an existing row untouched.
	_, err := s.db.Exec(`
		INSERT INTO ratings (model_name, elo_rating)
		VALUES (?, ?)
		ON CONFLICT(model_name) DO NOTHING
	`, modelName, model.DefaultElo)
	if err != nil {
		return nil, fmt.Errorf("%w: seed rating: %v", ErrDatabaseError, err)
	}

	row := s.db.QueryRow(`
		SELECT model_name, elo_rating, wins, losses, ties, total_battles, last_battle_at
		FROM ratings WHERE model_name = ?
	`, modelName)

	r, err := scanRating(row)
	if err != nil {
		return nil, fmt.Errorf("%w: get rating: %v", ErrDatabaseError, err)
	}
	return r, nil
}

// UpdateRating rewrites a rating row.
func (s *Store) UpdateRating(r *model.ModelRating) error {
	var lastBattle int64
	if !r.LastBattleAt.IsZero() {
		lastBattle = r.LastBattleAt.UnixNano()
	}

	res, err := s.db.Exec(`
		UPDATE ratings SET
			elo_rating = ?, wins = ?, losses = ?, ties = ?,
			total_battles = ?, last_battle_at = ?
		WHERE model_name = ?
	`, r.EloRating, r.Wins, r.Losses, r.Ties, r.TotalBattles, lastBattle, r.ModelName)
	if err != nil {
		return fmt.Errorf("%w: update rating: %v", ErrDatabaseError, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update rating: %v", ErrDatabaseError, err)
	}
	if n == 0 {
		return fmt.Errorf("no rating for model %s", r.ModelName)
	}
	return nil
}

// ListRatings returns all ratings ordered by ELO, best first. Models on
// equal ELO sort by name for stable output.
func (s *Store) ListRatings() ([]*model.ModelRating, error) {
	rows, err := s.db.Query(`
		SELECT model_name, elo_rating, wins, losses, ties, total_battles, last_battle_at
		FROM ratings ORDER BY elo_rating DESC, model_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list ratings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var ratings []*model.ModelRating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list ratings: %v", ErrDatabaseError, err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list ratings: %v", ErrDatabaseError, err)
	}
	return ratings, nil
}

func scanRating(row scanner) (*model.ModelRating, error) {
	var r model.ModelRating
	var lastBattle int64
	err := row.Scan(&r.ModelName, &r.EloRating, &r.Wins, &r.Losses, &r.Ties, &r.TotalBattles, &lastBattle)
	if err != nil {
		return nil, err
	}
	if lastBattle > 0 {
		r.LastBattleAt = time.Unix(0, lastBattle)
	}
	return &r, nil
}
