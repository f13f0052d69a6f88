package domain

import (
	"strings"
	"time"
)

// MemberStatus is the human-readable survey/pickup state of a member.
type MemberStatus string

const (
	StatusReceived     MemberStatus = "RECEIVED"
	StatusConfirmed    MemberStatus = "CONFIRMED"
	StatusNotConfirmed MemberStatus = "NOT_CONFIRMED"
)

// ParseMemberStatus matches a status filter value case-insensitively.
func ParseMemberStatus(value string) (MemberStatus, bool) {
	switch MemberStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusReceived:
		return StatusReceived, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusNotConfirmed:
		return StatusNotConfirmed, true
	}
	return "", false
}

const (
	SurveyMethodOnline = "ONLINE"
	SurveyMethodManual = "MANUAL"

	ReceiverSelf  = "SELF"
	ReceiverOther = "OTHER"

	ReceiveStatusReceived = "RECEIVED"
)

// MemberRecord is the canonical view of one member's survey and pickup state.
// Records are built fresh from every upstream response and never edited in place.
type MemberRecord struct {
	MemberCode    *string      `json:"memberCode"`
	FullName      *string      `json:"fullName"`
	DisplayName   *string      `json:"displayName"`
	Phone         *string      `json:"phone"`
	SocialID      *string      `json:"socialId"`
	SizeCode      *SizeCode    `json:"sizeCode"`
	SurveyDate    *time.Time   `json:"surveyDate"`
	SurveyMethod  *string      `json:"surveyMethod"`
	ReceiveStatus *string      `json:"receiveStatus"`
	HasReceived   bool         `json:"hasReceived"`
	ReceiveDate   *time.Time   `json:"receiveDate"`
	ReceiverType  *string      `json:"receiverType"`
	ReceiverName  *string      `json:"receiverName"`
	ProcessedBy   *string      `json:"processedBy"`
	Remarks       *string      `json:"remarks"`
	UpdatedDate   *time.Time   `json:"updatedDate"`
	UserRole      *string      `json:"userRole"`
	Status        MemberStatus `json:"status"`
}

// Code returns the member code or an empty string.
func (m MemberRecord) Code() string {
	if m.MemberCode == nil {
		return ""
	}
	return *m.MemberCode
}

// WithDerived returns a copy of m with HasReceived and Status recomputed from
// ReceiveStatus and SizeCode.
func (m MemberRecord) WithDerived() MemberRecord {
	m.HasReceived = m.ReceiveStatus != nil && *m.ReceiveStatus == ReceiveStatusReceived
	m.Status = DeriveStatus(m.SizeCode, m.HasReceived)
	return m
}

// DeriveStatus resolves the member status; a pickup outranks a size confirmation.
func DeriveStatus(size *SizeCode, hasReceived bool) MemberStatus {
	switch {
	case hasReceived:
		return StatusReceived
	case size != nil:
		return StatusConfirmed
	default:
		return StatusNotConfirmed
	}
}

// Pickup describes who collected a jacket.
type Pickup struct {
	ReceiverType string `json:"receiverType" validate:"required,oneof=SELF OTHER"`
	ReceiverName string `json:"receiverName" validate:"required_if=ReceiverType OTHER,max=200"`
	Remarks      string `json:"remarks" validate:"max=500"`
}
