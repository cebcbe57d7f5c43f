package postgres

import "github.com/Badsnus/qrlabels/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.RenderJob{},
}
