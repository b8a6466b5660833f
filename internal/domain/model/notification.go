package model

import "time"

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusSent     NotificationStatus = "sent"
	NotificationStatusFailed   NotificationStatus = "failed"
	NotificationStatusCanceled NotificationStatus = "canceled"
)

const (
	NotificationScopeUser          = "user"
	NotificationScopeAll           = "all"
	NotificationScopeSegmentPrefix = "segment:"
)

type Notification struct {
	ID          int64
	UserID      *int64
	Scope       string
	Text        string
	ScheduledAt time.Time
	SentAt      *time.Time
	Status      NotificationStatus
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubscriptionNotificationKind marks which reminder was already produced for
// a subscription; unique per (subscription_id, kind).
type SubscriptionNotificationKind string

const (
	SubNotifyD3      SubscriptionNotificationKind = "D3"
	SubNotifyD1      SubscriptionNotificationKind = "D1"
	SubNotifyExpired SubscriptionNotificationKind = "EXPIRED"
)
