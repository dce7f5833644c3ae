package notify

import (
	"fmt"

	"golang.org/x/text/language"
)

// MessageID identifies a localized message.
type MessageID string

const (
	MsgApproved        MessageID = "approved"
	MsgRejected        MessageID = "rejected"
	MsgSaved           MessageID = "saved"
	MsgTransferCreated MessageID = "transfer_created"
	MsgViewSaved       MessageID = "view_saved"
	MsgViewReset       MessageID = "view_reset"
	MsgOffline         MessageID = "offline"
	MsgSessionExpired  MessageID = "session_expired"
	MsgSomethingWrong  MessageID = "something_wrong"
	MsgLoadFailed      MessageID = "load_failed"
	MsgConfirmReject   MessageID = "confirm_reject"
	MsgConfirmTransfer MessageID = "confirm_transfer"
)

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[MessageID]string{
	language.English: {
		MsgApproved:        "Request approved successfully.",
		MsgRejected:        "Request rejected successfully.",
		MsgSaved:           "Changes saved successfully.",
		MsgTransferCreated: "Transfer submitted successfully.",
		MsgViewSaved:       "Column view saved.",
		MsgViewReset:       "Column view reset to default.",
		MsgOffline:         "You are offline. Check your network connection.",
		MsgSessionExpired:  "Your session has expired. Please sign in again.",
		MsgSomethingWrong:  "Something went wrong. Please try again.",
		MsgLoadFailed:      "Failed to load %s.",
		MsgConfirmReject:   "Are you sure you want to reject this request?",
		MsgConfirmTransfer: "Transfer %s %s from %s to %s?",
	},
	language.Korean: {
		MsgApproved:        "요청이 승인되었습니다.",
		MsgRejected:        "요청이 거절되었습니다.",
		MsgSaved:           "변경 사항이 저장되었습니다.",
		MsgTransferCreated: "이전 요청이 제출되었습니다.",
		MsgViewSaved:       "컬럼 보기가 저장되었습니다.",
		MsgViewReset:       "컬럼 보기가 기본값으로 초기화되었습니다.",
		MsgOffline:         "오프라인 상태입니다. 네트워크 연결을 확인하세요.",
		MsgSessionExpired:  "세션이 만료되었습니다. 다시 로그인하세요.",
		MsgSomethingWrong:  "문제가 발생했습니다. 다시 시도하세요.",
		MsgLoadFailed:      "%s 을(를) 불러오지 못했습니다.",
		MsgConfirmReject:   "이 요청을 거절하시겠습니까?",
		MsgConfirmTransfer: "%s %s 을(를) %s 에서 %s(으)로 이전하시겠습니까?",
	},
}

// Catalog resolves message ids for one locale.
type Catalog struct {
	tag language.Tag
}

// NewCatalog picks the best supported language for locale (e.g. "ko-KR"), English by default.
func NewCatalog(locale string) *Catalog {
	_, index := language.MatchStrings(matcher, locale)
	return &Catalog{tag: supported[index]}
}

// Language of the catalog.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T formats message id with args.
func (c *Catalog) T(id MessageID, args ...any) string {
	format, ok := messages[c.tag][id]
	if !ok {
		format, ok = messages[language.English][id]
	}
	if !ok {
		return string(id)
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
