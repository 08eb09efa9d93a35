package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ReviewEventsColumns holds the columns for the "review_events" table.
	// The id is the global sequence number; payload is the kind-specific
	// JSON body.
	ReviewEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString},
		{Name: "target_id", Type: field.TypeString, Default: ""},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "kind", Type: field.TypeString},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "payload", Type: field.TypeString, Default: "{}"},
	}
	// ReviewEventsTable holds the schema information for the "review_events" table.
	ReviewEventsTable = &schema.Table{
		Name:       "review_events",
		Columns:    ReviewEventsColumns,
		PrimaryKey: []*schema.Column{ReviewEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewevent_learner_id_course_id_timestamp",
				Columns: []*schema.Column{ReviewEventsColumns[1], ReviewEventsColumns[2], ReviewEventsColumns[6]},
			},
			{
				Name:    "reviewevent_learner_id_target_id_timestamp",
				Columns: []*schema.Column{ReviewEventsColumns[1], ReviewEventsColumns[3], ReviewEventsColumns[6]},
			},
		},
	}

	// DerivedSnapshotsColumns holds the columns for the "derived_snapshots" table.
	DerivedSnapshotsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "last_event_id", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// DerivedSnapshotsTable holds the schema information for the "derived_snapshots" table.
	DerivedSnapshotsTable = &schema.Table{
		Name:       "derived_snapshots",
		Columns:    DerivedSnapshotsColumns,
		PrimaryKey: []*schema.Column{DerivedSnapshotsColumns[0]},
	}

	// PlayerProfilesColumns holds the columns for the "player_profiles" table.
	PlayerProfilesColumns = []*schema.Column{
		{Name: "learner_id", Type: field.TypeString},
		{Name: "achiever", Type: field.TypeInt},
		{Name: "explorer", Type: field.TypeInt},
		{Name: "socializer", Type: field.TypeInt},
		{Name: "killer", Type: field.TypeInt},
		{Name: "dominant", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// PlayerProfilesTable holds the schema information for the "player_profiles" table.
	PlayerProfilesTable = &schema.Table{
		Name:       "player_profiles",
		Columns:    PlayerProfilesColumns,
		PrimaryKey: []*schema.Column{PlayerProfilesColumns[0]},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single-row counter behind event ids.
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ReviewEventsTable,
		DerivedSnapshotsTable,
		PlayerProfilesTable,
		GlobalSequenceTable,
	}
)
