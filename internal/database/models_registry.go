package database

import "levelup/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ScanRecord{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.ChatRoom{},
		&models.ChatRoomMember{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Reminder{},
		&models.Subscription{},
		&models.Media{},
		&models.AssistantMessage{},
	}
}
