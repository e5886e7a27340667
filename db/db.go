package db

// Database is the storage of the trial records.
type Database interface {
	// basic db management operations
	Close()
	Reset() error
	// trial methods
	Trial(userID string) (*TrialData, error)
	CreateTrial(trial *TrialData) error
	SetTrial(trial *TrialData) error
	DeleteTrial(userID string) error
}

var _ Database = (*MongoStorage)(nil)
