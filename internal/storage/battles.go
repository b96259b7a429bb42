// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// BATTLE STORE
// =============================================================================

// InsertBattle writes a new battle record.
func (s *Store) InsertBattle(b *model.ArenaBattle) error {
	_, err := s.db.Exec(`
		INSERT INTO battles (
			id, created_at, prompt,
			left_model_name, left_provider_id,
			right_model_name, right_provider_id,
			left_response, right_response,
			left_thinking_content, right_thinking_content,
			left_duration_ms, right_duration_ms, winner
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.CreatedAt.UnixNano(), b.Prompt,
		b.LeftModelName, b.LeftProviderID,
		b.RightModelName, b.RightProviderID,
		b.LeftResponse, b.RightResponse,
		b.LeftThinkingContent, b.RightThinkingContent,
		b.LeftDurationMs, b.RightDurationMs, b.Winner,
	)
	if err != nil {
		return fmt.Errorf("%w: insert battle: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetBattle returns the battle with the given ID, or (nil, nil) when no
// such battle exists.
func (s *Store) GetBattle(id string) (*model.ArenaBattle, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, prompt,
		       left_model_name, left_provider_id,
		       right_model_name, right_provider_id,
		       left_response, right_response,
		       left_thinking_content, right_thinking_content,
		       left_duration_ms, right_duration_ms, winner
		FROM battles WHERE id = ?
	`, id)

	b, err := scanBattle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get battle: %v", ErrDatabaseError, err)
	}
	return b, nil
}

// UpdateBattle rewrites an existing battle record.
func (s *Store) UpdateBattle(b *model.ArenaBattle) error {
	res, err := s.db.Exec(`
		UPDATE battles SET
			prompt = ?,
			left_response = ?, right_response = ?,
			left_thinking_content = ?, right_thinking_content = ?,
			left_duration_ms = ?, right_duration_ms = ?,
			winner = ?
		WHERE id = ?
	`,
		b.Prompt,
		b.LeftResponse, b.RightResponse,
		b.LeftThinkingContent, b.RightThinkingContent,
		b.LeftDurationMs, b.RightDurationMs,
		b.Winner, b.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: update battle: %v", ErrDatabaseError, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update battle: %v", ErrDatabaseError, err)
	}
	if n == 0 {
		return fmt.Errorf("no battle with id %s", b.ID)
	}
	return nil
}

// ListBattles returns the most recent battles, newest first. A limit of
// zero or less returns everything.
func (s *Store) ListBattles(limit int) ([]*model.ArenaBattle, error) {
	query := `
		SELECT id, created_at, prompt,
		       left_model_name, left_provider_id,
		       right_model_name, right_provider_id,
		       left_response, right_response,
		       left_thinking_content, right_thinking_content,
		       left_duration_ms, right_duration_ms, winner
		FROM battles ORDER BY created_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list battles: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var battles []*model.ArenaBattle
	for rows.Next() {
		b, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list battles: %v", ErrDatabaseError, err)
		}
		battles = append(battles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list battles: %v", ErrDatabaseError, err)
	}
	return battles, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBattle(row scanner) (*model.ArenaBattle, error) {
	var b model.ArenaBattle
	var createdAt int64
	err := row.Scan(
		&b.ID, &createdAt, &b.Prompt,
		&b.LeftModelName, &b.LeftProviderID,
		&b.RightModelName, &b.RightProviderID,
		&b.LeftResponse, &b.RightResponse,
		&b.LeftThinkingContent, &b.RightThinkingContent,
		&b.LeftDurationMs, &b.RightDurationMs, &b.Winner,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = time.Unix(0, createdAt)
	return &b, nil
}
