package db

import (
	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/models"
)

// The production view concatenates responsibles with STRING_AGG.
const actionsViewSQL = `CREATE VIEW IF NOT EXISTS vwCustMeetingActionRespConcat AS
SELECT a.fldCustMeetingActionID,
       a.fldCustMeetingID,
       a.fldCustMeetingAction,
       a.fldCustMeetingActionPos,
       a.fldStatus,
       a.fldCreatedBy,
       group_concat(r.fldBranch || ':' || r.fldEmployeeID, ', ') AS Responsibles
FROM tblCustMeetingAction a
LEFT JOIN tblCustMeetingActionResp r ON r.fldCustMeetingActionID = a.fldCustMeetingActionID
GROUP BY a.fldCustMeetingActionID`

// Migrate builds a development copy of the business schema. The SQL Server
// schema is owned elsewhere, so only SQLite databases are accepted.
func Migrate(conn *gorm.DB) error {
	if name := conn.Dialector.Name(); name != DriverSQLite {
		return errors.NotSupportedf("migrating a %s database", name)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return errors.Annotate(err, "migrating models")
	}
	if err := conn.Exec(actionsViewSQL).Error; err != nil {
		return errors.Annotate(err, "creating meeting actions view")
	}
	logging.Infof("migrated %d models", len(models.All()))
	return nil
}
