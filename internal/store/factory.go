package store

type Stores struct {
	db DBTX
}

func NewStores(db DBTX) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.db)
}

func (s *Stores) Analyses() AnalysisStore {
	return newAnalysisStore(s.db)
}

func (s *Stores) Alerts() AlertStore {
	return newAlertStore(s.db)
}
