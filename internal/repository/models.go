package repository

import (
	"time"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"github.com/lib/pq"
)

// ClientModel is the persistence model for the clients table.
type ClientModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	FirstName   string `gorm:"type:text"`
	LastName    string `gorm:"type:text"`
	MiddleName  string `gorm:"type:text"`
	CompanyName string `gorm:"type:text"`
	CompanyType string `gorm:"type:text"`
	Email       string `gorm:"type:text"`
	Mobile      int64
	GSTNo       string `gorm:"column:gst_no;type:text"`
	Address     string
}

func (ClientModel) TableName() string {
	return "clients"
}

// ClientGroupModel is the persistence model for client_groups.
type ClientGroupModel struct {
	GroupID   int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	GroupCode string `gorm:"type:text;uniqueIndex;not null"`
	GroupName string `gorm:"type:text;not null"`
	Comments  string `gorm:"type:text"`
}

func (ClientGroupModel) TableName() string {
	return "client_groups"
}

// ClientGroupMapModel is the persistence model for client_group_map.
type ClientGroupMapModel struct {
	MappingID int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	GroupID   int64 `gorm:"not null"`
	ClientID  int64 `gorm:"not null"`
}

func (ClientGroupMapModel) TableName() string {
	return "client_group_map"
}

// EmailTemplateModel is the persistence model for email_template.
type EmailTemplateModel struct {
	TemplateID            int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt             time.Time
	Subject               string         `gorm:"type:text"`
	Body                  string         `gorm:"type:text"`
	ExternalReferenceInfo string         `gorm:"type:text"`
	Name                  string         `gorm:"type:text;uniqueIndex;not null"`
	DataReferences        pq.StringArray `gorm:"type:text[]"`
}

func (EmailTemplateModel) TableName() string {
	return "email_template"
}

// ReminderTypeModel is the persistence model for reminder_type_info.
type ReminderTypeModel struct {
	ReminderTypeID  int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt       time.Time
	EmailTemplateID int64  `gorm:"not null"`
	Name            string `gorm:"type:text;uniqueIndex;not null"`
}

func (ReminderTypeModel) TableName() string {
	return "reminder_type_info"
}

// ReminderModel is the persistence model for reminder_info.
type ReminderModel struct {
	ReminderID         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt          time.Time
	ReminderTypeID     int64         `gorm:"not null"`
	Deadline           time.Time     `gorm:"type:date;not null"`
	DaysBeforeDeadline pq.Int64Array `gorm:"type:integer[];not null"`
	ReceiverType       string        `gorm:"type:text;not null"`
	ReceiverID         int64         `gorm:"not null"`
}

func (ReminderModel) TableName() string {
	return "reminder_info"
}

// DeliveryStatusModel is the persistence model for reminder_status. Rows are
// append-only: inserted once per decision, never updated.
type DeliveryStatusModel struct {
	RequestID    int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time
	ReminderID   int64   `gorm:"not null"`
	ClientID     int64   `gorm:"not null"`
	Status       string  `gorm:"type:text;not null"`
	ErrorMessage *string `gorm:"type:text"`
}

func (DeliveryStatusModel) TableName() string {
	return "reminder_status"
}

// BlocklistModel is the persistence model for reminder_blocklist.
type BlocklistModel struct {
	BlockID   int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	ClientID  int64  `gorm:"not null"`
	Reason    string `gorm:"type:text"`
}

func (BlocklistModel) TableName() string {
	return "reminder_blocklist"
}

// UnsubscribeModel is the persistence model for reminder_unsubscribers.
type UnsubscribeModel struct {
	UnsubscribeID int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time
	ReminderID    int64  `gorm:"not null"`
	ClientID      int64  `gorm:"not null"`
	ReasonType    string `gorm:"type:text"`
	Reason        string `gorm:"type:text"`
}

func (UnsubscribeModel) TableName() string {
	return "reminder_unsubscribers"
}

// LeadModel is the persistence model for leads. Reference data for the
// surrounding CRM; the engine never mails leads.
type LeadModel struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt        time.Time
	Name             string `gorm:"type:text;not null"`
	IssueDescription string `gorm:"type:text"`
	Mobile           int64
	Email            string `gorm:"type:text"`
	ClientID         *int64
}

func (LeadModel) TableName() string {
	return "leads"
}

func clientModelToDomain(m *ClientModel) *domain.Client {
	if m == nil {
		return nil
	}

	return &domain.Client{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		MiddleName:  m.MiddleName,
		CompanyName: m.CompanyName,
		CompanyType: m.CompanyType,
		Email:       m.Email,
		Mobile:      m.Mobile,
		GSTNo:       m.GSTNo,
		Address:     m.Address,
	}
}

func reminderModelToDomain(m *ReminderModel) *domain.ReminderDefinition {
	if m == nil {
		return nil
	}

	offsets := make([]int, 0, len(m.DaysBeforeDeadline))
	for _, offset := range m.DaysBeforeDeadline {
		offsets = append(offsets, int(offset))
	}

	return &domain.ReminderDefinition{
		ReminderID:         m.ReminderID,
		CreatedAt:          m.CreatedAt,
		ReminderTypeID:     m.ReminderTypeID,
		Deadline:           m.Deadline,
		DaysBeforeDeadline: offsets,
		ReceiverType:       domain.ReceiverType(m.ReceiverType),
		ReceiverID:         m.ReceiverID,
	}
}

func reminderTypeModelToDomain(m *ReminderTypeModel) *domain.ReminderType {
	if m == nil {
		return nil
	}

	return &domain.ReminderType{
		ReminderTypeID:  m.ReminderTypeID,
		CreatedAt:       m.CreatedAt,
		EmailTemplateID: m.EmailTemplateID,
		Name:            m.Name,
	}
}

func templateModelToDomain(m *EmailTemplateModel) *domain.EmailTemplate {
	if m == nil {
		return nil
	}

	return &domain.EmailTemplate{
		TemplateID:            m.TemplateID,
		CreatedAt:             m.CreatedAt,
		Subject:               m.Subject,
		Body:                  m.Body,
		ExternalReferenceInfo: m.ExternalReferenceInfo,
		Name:                  m.Name,
		DataReferences:        []string(m.DataReferences),
	}
}

func statusRecordFromDomain(r *domain.DeliveryStatusRecord) *DeliveryStatusModel {
	if r == nil {
		return nil
	}

	return &DeliveryStatusModel{
		RequestID:    r.RequestID,
		CreatedAt:    r.CreatedAt,
		ReminderID:   r.ReminderID,
		ClientID:     r.ClientID,
		Status:       r.Status.String(),
		ErrorMessage: r.ErrorMessage,
	}
}

func statusRecordToDomain(m *DeliveryStatusModel) *domain.DeliveryStatusRecord {
	if m == nil {
		return nil
	}

	return &domain.DeliveryStatusRecord{
		RequestID:    m.RequestID,
		CreatedAt:    m.CreatedAt,
		ReminderID:   m.ReminderID,
		ClientID:     m.ClientID,
		Status:       domain.DeliveryStatus(m.Status),
		ErrorMessage: m.ErrorMessage,
	}
}
