package models

type Stats struct {
	Users               int64 `json:"users"`
	Admins              int64 `json:"admins"`
	Pages               int64 `json:"pages"`
	PublicPages         int64 `json:"publicPages"`
	Medicines           int64 `json:"medicines"`
	Allergies           int64 `json:"allergies"`
	Diagnoses           int64 `json:"diagnoses"`
	EmergencyContacts   int64 `json:"emergencyContacts"`
	Orders              int64 `json:"orders"`
	PendingOrders       int64 `json:"pendingOrders"`
	UnreadNotifications int64 `json:"unreadNotifications"`
}

func CurrentStats() (*Stats, error) {
	stats := Stats{}

	counts := []struct {
		model interface{}
		query string
		args  []interface{}
		dest  *int64
	}{
		{&User{}, "", nil, &stats.Users},
		{&User{}, "is_admin = ?", []interface{}{true}, &stats.Admins},
		{&Page{}, "", nil, &stats.Pages},
		{&Page{}, "is_public = ?", []interface{}{true}, &stats.PublicPages},
		{&Medicine{}, "", nil, &stats.Medicines},
		{&Allergy{}, "", nil, &stats.Allergies},
		{&Diagnosis{}, "", nil, &stats.Diagnoses},
		{&EmergencyContact{}, "", nil, &stats.EmergencyContacts},
		{&Order{}, "", nil, &stats.Orders},
		{&Order{}, "status = ?", []interface{}{PENDING_ORDER}, &stats.PendingOrders},
		{&Notification{}, "read = ?", []interface{}{false}, &stats.UnreadNotifications},
	}

	for _, count := range counts {
		query := db.Model(count.model)
		if count.query != "" {
			query = query.Where(count.query, count.args...)
		}

		if err := query.Count(count.dest).Error; err != nil {
			return nil, translateError(err, "stats")
		}
	}

	return &stats, nil
}
