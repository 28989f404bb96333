package storage

import (
	"context"
	"database/sql"
	"errors"

	pq "github.com/lib/pq"

	"github.com/jose-valero/scrim-matchmaker/internal/domain"
)

var ErrNotFound = errors.New("not found")

type ScrimRepo struct{ db *sql.DB }

func NewScrimRepo(db *sql.DB) *ScrimRepo { return &ScrimRepo{db: db} }

const scrimCols = `id, creator_id, team_name, region, platform, rank_from, rank_to, time, match_id, cancelled`

func scanScrim(row interface{ Scan(...any) error }) (domain.Scrim, error) {
	var (
		s                sql.NullString
		m                sql.NullInt64
		sc               domain.Scrim
		region, platform string
		from, to         int32
	)
	err := row.Scan(&sc.ID, &sc.CreatorID, &s, &region, &platform, &from, &to, &sc.Time, &m, &sc.Cancelled)
	if err != nil {
		return domain.Scrim{}, err
	}
	if s.Valid {
		sc.TeamName = &s.String
	}
	if m.Valid {
		sc.MatchID = &m.Int64
	}
	sc.Region = domain.Region(region)
	sc.Platform = domain.Platform(platform)
	sc.Range = domain.RankRange{From: uint32(from), To: uint32(to)}
	return sc, nil
}

func (r *ScrimRepo) Create(ctx context.Context, sc domain.Scrim) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO scrims (creator_id, team_name, region, platform, rank_from, rank_to, time, match_id, cancelled)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id
`, sc.CreatorID, sc.TeamName, string(sc.Region), string(sc.Platform),
		int32(sc.Range.From), int32(sc.Range.To), sc.Time, sc.MatchID, sc.Cancelled).Scan(&id)
	return id, err
}

func (r *ScrimRepo) Cancel(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scrims SET cancelled = TRUE WHERE id = $1`, id)
	return err
}

func (r *ScrimRepo) Restore(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scrims SET cancelled = FALSE WHERE id = $1`, id)
	return err
}

// ProposeMatch sets the directed edge from -> to. The other scrim is left
// untouched; the match is only confirmed once it points back.
func (r *ScrimRepo) ProposeMatch(ctx context.Context, from, to int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scrims SET match_id = $2 WHERE id = $1`, from, to)
	return err
}

func (r *ScrimRepo) RevokeMatch(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scrims SET match_id = NULL WHERE id = $1`, id)
	return err
}

func (r *ScrimRepo) Get(ctx context.Context, id int64) (domain.Scrim, error) {
	sc, err := scanScrim(r.db.QueryRowContext(ctx, `
SELECT `+scrimCols+` FROM scrims WHERE id = $1
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scrim{}, ErrNotFound
	}
	return sc, err
}

// GetByIDs fetches a batch of scrims, used to resolve proposal partners for a
// whole listing in one round trip.
func (r *ScrimRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Scrim, error) {
	out := map[int64]domain.Scrim{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+scrimCols+` FROM scrims WHERE id = ANY($1)
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		sc, err := scanScrim(rows)
		if err != nil {
			return nil, err
		}
		out[sc.ID] = sc
	}
	return out, rows.Err()
}

func (r *ScrimRepo) ListUpcomingByCreator(ctx context.Context, creatorID string) ([]domain.Scrim, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+scrimCols+`
  FROM scrims
 WHERE creator_id = $1 AND time >= now() AND NOT cancelled
 ORDER BY time ASC
`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Scrim
	for rows.Next() {
		sc, err := scanScrim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// FindMatches ranks up to limit counterpart scrims for ref by ascending
// weighted difference. Candidates already matched to a third scrim are
// excluded; candidates already pointing at ref get the reciprocal bonus and
// sort first.
func (r *ScrimRepo) FindMatches(ctx context.Context, ref domain.Scrim, limit int) ([]domain.ScoredScrim, error) {
	w := domain.DefaultWeights
	rows, err := r.db.QueryContext(ctx, `
SELECT `+scrimCols+`,
       (
           ABS((rank_from + rank_to) / 2.0 - $1) * $2 +
           ABS(EXTRACT(EPOCH FROM (time - $3))) * $4 +
           (region   <> $5)::INT * $6 +
           (platform <> $7)::INT * $8 +
           (match_id IS NOT NULL AND match_id = $9)::INT * -$10
       )::FLOAT8 AS difference
  FROM scrims
 WHERE creator_id <> $11 AND time >= now() AND NOT cancelled
   AND (match_id IS NULL OR match_id = $9)
 ORDER BY difference ASC
 LIMIT $12
`,
		ref.Range.Midpoint(), w.Rank,
		ref.Time, w.TimePerSecond,
		string(ref.Region), w.Region,
		string(ref.Platform), w.Platform,
		ref.ID, w.Reciprocal,
		ref.CreatorID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScoredScrim
	for rows.Next() {
		var (
			s                sql.NullString
			m                sql.NullInt64
			sc               domain.ScoredScrim
			region, platform string
			from, to         int32
		)
		err := rows.Scan(&sc.ID, &sc.CreatorID, &s, &region, &platform, &from, &to,
			&sc.Time, &m, &sc.Cancelled, &sc.Difference)
		if err != nil {
			return nil, err
		}
		if s.Valid {
			sc.TeamName = &s.String
		}
		if m.Valid {
			sc.MatchID = &m.Int64
		}
		sc.Region = domain.Region(region)
		sc.Platform = domain.Platform(platform)
		sc.Range = domain.RankRange{From: uint32(from), To: uint32(to)}
		out = append(out, sc)
	}
	return out, rows.Err()
}
