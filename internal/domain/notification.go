package domain

import "time"

// Notification is a named message tracked by the service. Both timestamps are
// owned by the service layer; clients never set them.
type Notification struct {
	ID                   int64     `json:"id" dynamodbav:"id"`
	Name                 string    `json:"name" dynamodbav:"name"`
	Message              string    `json:"message" dynamodbav:"message"`
	CreationDate         time.Time `json:"creationDate" dynamodbav:"creation_date"`
	LastModificationDate time.Time `json:"lastModificationDate" dynamodbav:"last_modification_date"`
}

// NotificationInput is the client-writable part of a notification. Any id or
// timestamp fields in a request body are dropped during decoding.
type NotificationInput struct {
	Name    string `json:"name" validate:"max=255"`
	Message string `json:"message" validate:"max=4000"`
}
