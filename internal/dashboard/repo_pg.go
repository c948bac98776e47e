package dashboard

import (
	"context"
	"database/sql"
)

// PGRepo computes dashboard aggregates with SQL.
type PGRepo struct {
	DB *sql.DB
}

const topSkillsLimit = 10

func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	const counts = `
SELECT
    (SELECT COUNT(*) FROM documents),
    (SELECT COUNT(DISTINCT uploader_id) FROM documents),
    (SELECT COUNT(*) FROM extractions WHERE current AND status = 'completed'),
    (SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (processed_at - created_at)) * 1000), 0)
     FROM extractions WHERE current AND status = 'completed' AND processed_at IS NOT NULL)`
	if err := r.DB.QueryRowContext(ctx, counts).Scan(
		&stats.DocumentsProcessed,
		&stats.ActiveCandidates,
		&stats.CompletedExtractions,
		&stats.AvgProcessingMs,
	); err != nil {
		return Stats{}, err
	}

	const topSkills = `
SELECT LOWER(skill) AS skill, COUNT(*) AS n
FROM extractions, UNNEST(skill_tokens) AS skill
WHERE current AND status = 'completed'
GROUP BY LOWER(skill)
ORDER BY n DESC, skill
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, topSkills, topSkillsLimit)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var sc SkillCount
		if err := rows.Scan(&sc.Skill, &sc.Count); err != nil {
			return Stats{}, err
		}
		stats.TopSkills = append(stats.TopSkills, sc)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

var _ Repo = (*PGRepo)(nil)
