package models

import (
	"strings"
	"time"
)

// DownloadCooldown is the minimum interval between two successful exports
// by the same account.
const DownloadCooldown = time.Hour

// User is the account entity. Authentication and profile management live
// elsewhere; this service only reads identity fields and owns the two
// download-tracking columns.
type User struct {
	Id         string `gorm:"column:id;primaryKey"`
	Username   string `json:"username" gorm:"uniqueIndex"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Bio        string `json:"bio,omitempty"`
	IsVerified bool   `json:"isVerified"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Download tracking. LastDownload is the cooldown anchor, DownloadCount a
	// lifetime counter. Both are advanced in a single atomic row update, see
	// repositories.UserRepository.MarkDownloaded.
	LastDownload  *time.Time `json:"lastDownload,omitempty"`
	DownloadCount uint       `json:"downloadCount"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanDownload reports whether the cooldown window has elapsed. A user that
// has never downloaded is always allowed.
func (u *User) CanDownload() bool {
	if u.LastDownload == nil {
		return true
	}
	return time.Since(*u.LastDownload) > DownloadCooldown
}
