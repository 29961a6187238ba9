package model

// HistoryEntry is a single observed price point. Immutable once created.
type HistoryEntry struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

// ProductRecord is the stored state for one product, keyed by
// (hostname, canonical URL). History carries no ordering guarantee;
// consumers sort by timestamp before taking latest/previous.
type ProductRecord struct {
	Name     string         `json:"name"`
	ImageURL string         `json:"imageUrl,omitempty"`
	History  []HistoryEntry `json:"history"`
}

// HostProducts maps canonical URLs to product records within one hostname
type HostProducts map[string]ProductRecord

// ConditionType selects how an alert compares history to its target
type ConditionType string

const (
	// ConditionPriceBelow triggers when the latest price is strictly
	// below the target value
	ConditionPriceBelow ConditionType = "priceBelow"
	// ConditionPercentageDrop triggers when the drop from the previous
	// to the latest price meets the target percentage
	ConditionPercentageDrop ConditionType = "percentageDrop"
)

// AlertStatus is the lifecycle state of an alert
type AlertStatus string

const (
	// AlertActive means the alert is evaluated on every check
	AlertActive AlertStatus = "active"
	// AlertTriggered is terminal until the user reactivates the alert
	AlertTriggered AlertStatus = "triggered"
	// AlertPaused means the user has suspended evaluation
	AlertPaused AlertStatus = "paused"
)

// Alert is a user-created price watch condition
type Alert struct {
	ID            string        `json:"id"`
	URL           string        `json:"url"`
	Hostname      string        `json:"hostname"`
	ProductName   string        `json:"productName"`
	ConditionType ConditionType `json:"conditionType"`
	TargetValue   float64       `json:"targetValue"`
	Status        AlertStatus   `json:"status"`
	Created       int64         `json:"created"`
	LastTriggered int64         `json:"lastTriggered,omitempty"`
}

// Settings is the process-wide configuration, read fresh at every
// mutation site rather than cached long-lived
type Settings struct {
	Theme               string `json:"theme"`
	GlobalNotifications bool   `json:"globalNotifications"`
	AlertEmail          string `json:"alertEmail"`
	HistoryRetention    int    `json:"historyRetention"`
}

// DefaultSettings returns the settings defaults
func DefaultSettings() Settings {
	return Settings{
		Theme:               "dark",
		GlobalNotifications: true,
		AlertEmail:          "",
		HistoryRetention:    20,
	}
}

// Credentials is the simulated account record. The hash is explicitly
// non-cryptographic; see the account package.
type Credentials struct {
	Email          string `json:"email"`
	HashedPassword string `json:"hashedPassword"`
}
