package model

// PushSubscription holds the browser push subscription a customer may attach to a booking.
type PushSubscription struct {
	Endpoint string `gorm:"size:1024" json:"endpoint"`
	P256DH   string `gorm:"column:p256dh;size:256" json:"p256dh"`
	Auth     string `gorm:"size:256" json:"auth"`
}

// IsZero reports whether no usable subscription was supplied.
func (p PushSubscription) IsZero() bool {
	return p.Endpoint == "" || p.P256DH == "" || p.Auth == ""
}
