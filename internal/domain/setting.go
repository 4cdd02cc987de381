package domain

// RuntimeSetting is a persisted operator override, adapted from a generic
// key/value settings table: it survives a restart so the process can
// report what it was last configured to do, without persisting any device
// runtime state.
type RuntimeSetting struct {
	Key   string `json:"key" gorm:"primaryKey;type:text"`
	Value string `json:"value" gorm:"not null;type:text"`
}

// Recognized runtime setting keys.
const (
	SettingActiveDeviceMix = "pool.active_device_mix"
	SettingIdleTimeoutMS   = "pool.idle_timeout_ms"
	SettingMaxDevices      = "pool.max_devices"
)
