package store

import (
	"database/sql"
	"errors"
	"time"
)

func scanSpell(scanner interface{ Scan(dest ...any) error }) (*SpellRow, error) {
	var (
		row           SpellRow
		school        sql.NullString
		sphere        sql.NullString
		classList     sql.NullString
		rangeText     sql.NullString
		components    sql.NullString
		materials     sql.NullString
		castingTime   sql.NullString
		duration      sql.NullString
		area          sql.NullString
		savingThrow   sql.NullString
		damage        sql.NullString
		magicResist   sql.NullString
		reversible    sql.NullInt64
		description   sql.NullString
		tags          sql.NullString
		source        sql.NullString
		edition       sql.NullString
		author        sql.NullString
		license       sql.NullString
		isQuestSpell  sql.NullInt64
		isCantrip     sql.NullInt64
		canonicalData sql.NullString
		contentHash   sql.NullString
		schemaVersion sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&row.ID,
		&row.Name,
		&row.Level,
		&school,
		&sphere,
		&classList,
		&rangeText,
		&components,
		&materials,
		&castingTime,
		&duration,
		&area,
		&savingThrow,
		&damage,
		&magicResist,
		&reversible,
		&description,
		&tags,
		&source,
		&edition,
		&author,
		&license,
		&isQuestSpell,
		&isCantrip,
		&canonicalData,
		&contentHash,
		&schemaVersion,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	row.School = school.String
	row.Sphere = sphere.String
	row.ClassList = classList.String
	row.Range = rangeText.String
	row.Components = components.String
	row.MaterialComponents = materials.String
	row.CastingTime = castingTime.String
	row.Duration = duration.String
	row.Area = area.String
	row.SavingThrow = savingThrow.String
	row.Damage = damage.String
	row.MagicResistance = magicResist.String
	row.Reversible = reversible.Int64 != 0
	row.Description = description.String
	row.Tags = tags.String
	row.Source = source.String
	row.Edition = edition.String
	row.Author = author.String
	row.License = license.String
	row.IsQuestSpell = isQuestSpell.Int64 != 0
	row.IsCantrip = isCantrip.Int64 != 0
	if canonicalData.Valid {
		row.CanonicalData = []byte(canonicalData.String)
	}
	row.ContentHash = contentHash.String
	row.SchemaVersion = int(schemaVersion.Int64)

	if created, err := parseTimeString(createdRaw.String); err == nil {
		row.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		row.UpdatedAt = updated
	}
	return &row, nil
}

// legacyArgs follows the column order of legacyColumns.
func legacyArgs(row *SpellRow) []any {
	return []any{
		row.Name,
		row.Level,
		nullableString(row.School),
		nullableString(row.Sphere),
		nullableString(row.ClassList),
		nullableString(row.Range),
		nullableString(row.Components),
		nullableString(row.MaterialComponents),
		nullableString(row.CastingTime),
		nullableString(row.Duration),
		nullableString(row.Area),
		nullableString(row.SavingThrow),
		nullableString(row.Damage),
		nullableString(row.MagicResistance),
		boolToInt(row.Reversible),
		row.Description,
		nullableString(row.Tags),
		nullableString(row.Source),
		nullableString(row.Edition),
		nullableString(row.Author),
		nullableString(row.License),
		boolToInt(row.IsQuestSpell),
		boolToInt(row.IsCantrip),
	}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return string(value)
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
