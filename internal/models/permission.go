package models

// RecordType is the permission granularity unit: one of the seven trackable
// categories.
type RecordType string

const (
	RecordFeeding     RecordType = "feeding"
	RecordSleep       RecordType = "sleep"
	RecordDiaper      RecordType = "diaper"
	RecordGrowth      RecordType = "growth"
	RecordSchedule    RecordType = "schedule"
	RecordContraction RecordType = "contraction"
	RecordBasicInfo   RecordType = "basic_info"
)

// AllRecordTypes lists every record type, in display order.
var AllRecordTypes = []RecordType{
	RecordFeeding,
	RecordSleep,
	RecordDiaper,
	RecordGrowth,
	RecordSchedule,
	RecordContraction,
	RecordBasicInfo,
}

// Valid reports whether t is one of the known record types
func (t RecordType) Valid() bool {
	for _, known := range AllRecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PermissionGrant is an explicit, stored override of the default view policy
// for one (user, baby, record type) triple. Absence of a grant row is
// semantically distinct from an explicit CanView=false row.
type PermissionGrant struct {
	ID         int64
	BabyID     int64
	UserID     int64
	RecordType RecordType
	CanView    bool
}
