package normalize

import (
	"time"

	"jacket-survey/internal/domain"
)

// RawMember is an undecoded member object as returned by the remote service.
// Keys are either the legacy SCREAMING_SNAKE_CASE names or camelCase.
type RawMember map[string]any

// Legacy field names emitted by the member service.
const (
	KeyMemberCode    = "MEMB_CODE"
	KeyFullName      = "FULLNAME"
	KeyDisplayName   = "DISPLAYNAME"
	KeyMobile        = "MEMB_MOBILE"
	KeySocialID      = "MEMB_SOCID"
	KeySizeCode      = "SIZE_CODE"
	KeySurveyDate    = "SURVEY_DATE"
	KeySurveyMethod  = "SURVEY_METHOD"
	KeyProcessedBy   = "PROCESSED_BY"
	KeyReceiverName  = "RECEIVER_NAME"
	KeyReceiverType  = "RECEIVER_TYPE"
	KeyReceiveDate   = "RECEIVE_DATE"
	KeyReceiveStatus = "RECEIVE_STATUS"
	KeyRemarks       = "REMARKS"
	KeyUpdatedDate   = "UPDATED_DATE"
	KeyUserRole      = "USER_ROLE"
)

// NormalizeMember maps a raw member onto a MemberRecord. A nil raw means the
// lookup found nothing and yields nil. Fields that are missing or fail to
// parse come back nil; the function never fails.
func NormalizeMember(raw RawMember) *domain.MemberRecord {
	if raw == nil {
		return nil
	}

	rec := domain.MemberRecord{
		MemberCode:    text(pick(raw, KeyMemberCode, "memberCode", "membCode")),
		FullName:      text(pick(raw, KeyFullName, "FULL_NAME", "fullName")),
		DisplayName:   text(pick(raw, KeyDisplayName, "DISPLAY_NAME", "displayName")),
		Phone:         text(pick(raw, KeyMobile, "phone", "mobile", "membMobile")),
		SocialID:      text(pick(raw, KeySocialID, "socialId", "membSocid")),
		SizeCode:      sizeCode(pick(raw, KeySizeCode, "sizeCode")),
		SurveyDate:    date(pick(raw, KeySurveyDate, "surveyDate")),
		SurveyMethod:  oneOf(pick(raw, KeySurveyMethod, "surveyMethod"), domain.SurveyMethodOnline, domain.SurveyMethodManual),
		ReceiveStatus: text(pick(raw, KeyReceiveStatus, "receiveStatus")),
		ReceiveDate:   date(pick(raw, KeyReceiveDate, "receiveDate")),
		ReceiverType:  oneOf(pick(raw, KeyReceiverType, "receiverType"), domain.ReceiverSelf, domain.ReceiverOther),
		ReceiverName:  text(pick(raw, KeyReceiverName, "receiverName")),
		ProcessedBy:   text(pick(raw, KeyProcessedBy, "processedBy")),
		Remarks:       text(pick(raw, KeyRemarks, "remarks")),
		UpdatedDate:   date(pick(raw, KeyUpdatedDate, "updatedDate")),
		UserRole:      text(pick(raw, KeyUserRole, "userRole")),
	}
	rec = rec.WithDerived()
	return &rec
}

// NormalizeMemberList normalizes every object in a raw array. Anything that is
// not an array yields an empty slice, and elements without an object body are
// dropped since they carry no identity.
func NormalizeMemberList(raw any) []domain.MemberRecord {
	var items []any
	switch t := raw.(type) {
	case []any:
		items = t
	case []map[string]any:
		items = make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
	case []RawMember:
		items = make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
	default:
		return []domain.MemberRecord{}
	}

	out := make([]domain.MemberRecord, 0, len(items))
	for _, item := range items {
		var rec *domain.MemberRecord
		switch m := item.(type) {
		case map[string]any:
			rec = NormalizeMember(RawMember(m))
		case RawMember:
			rec = NormalizeMember(m)
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

func sizeCode(v any) *domain.SizeCode {
	s := text(v)
	if s == nil {
		return nil
	}
	code, ok := domain.ParseSizeCode(*s)
	if !ok {
		return nil
	}
	return &code
}

func date(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return ParseLegacyDate(s)
}
