package session

import "time"

type EntryKind string

const (
	KindDevice EntryKind = "device"
	KindFile   EntryKind = "file"
	KindEmail  EntryKind = "email"
)

// Entry is one noteworthy event inside a user's day. The set of
// implementations is closed: DeviceSession, FileSession and EmailSession.
type Entry interface {
	Kind() EntryKind
	At() time.Time
	entry()
}

type DeviceSession struct {
	Time     time.Time `json:"time"`
	Activity string    `json:"activity"`
	Shared   bool      `json:"shared"`
}

func (DeviceSession) Kind() EntryKind { return KindDevice }
func (s DeviceSession) At() time.Time { return s.Time }
func (DeviceSession) entry() {}

type FileType string

const (
	FileExe   FileType = "exe"
	FileDoc   FileType = "doc"
	FileOther FileType = "other"
)

type FileSession struct {
	Time      time.Time `json:"time"`
	FileType  FileType  `json:"file_type"`
	SizeBytes int       `json:"file_size"`
	WordCount int       `json:"no_words"`
}

func (FileSession) Kind() EntryKind { return KindFile }
func (s FileSession) At() time.Time { return s.Time }
func (FileSession) entry() {}

type EmailSession struct {
	Time            time.Time `json:"time"`
	OutsideOrg      int       `json:"emails_outside_organization"`
	InsideOrg       int       `json:"emails_inside_organization"`
	TotalRecipients int       `json:"total_recipients"`
	Attachments     int       `json:"number_of_attachments"`
	SizeBytes       int64     `json:"email_size"`
	Malicious       bool      `json:"malicious"`
}

func (EmailSession) Kind() EntryKind { return KindEmail }
func (s EmailSession) At() time.Time { return s.Time }
func (EmailSession) entry() {}
