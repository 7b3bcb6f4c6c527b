package notify

// Locale selects email copy only; it never affects control flow.

type copySet struct {
	ConfirmSubject    string
	CancelSubject     string
	RescheduleSubject string

	Hi             string // {name}
	Thanks         string
	SeeYou         string // {date} {time}
	CancelledIntro string
	RescheduleInfo string // {old} {new}
	ZoomLink       string
	ManageLink     string
	Contact        string
	TeamName       string
}

var copyByLocale = map[string]copySet{
	"ja": {
		ConfirmSubject:    "無料コーチングセッションのご予約を承りました",
		CancelSubject:     "ご予約のキャンセルを承りました",
		RescheduleSubject: "ご予約の変更を承りました",
		Hi:                "%s様",
		Thanks:            "この度は無料コーチングセッションをご予約いただきありがとうございます。",
		SeeYou:            "%s %s(JST)にお会いできることを楽しみにしております。",
		CancelledIntro:    "以下のご予約はキャンセルされました。",
		RescheduleInfo:    "旧日時: %s\n新日時: %s",
		ZoomLink:          "Zoomリンク",
		ManageLink:        "予約内容の確認・変更はこちら",
		Contact:           "ご不明な点がございましたらお気軽にお問い合わせください。",
		TeamName:          "J-Global Business School",
	},
	"en": {
		ConfirmSubject:    "Your free coaching session is confirmed",
		CancelSubject:     "Your booking has been cancelled",
		RescheduleSubject: "Your booking has been rescheduled",
		Hi:                "Hi %s,",
		Thanks:            "Thank you for booking a free coaching session with us.",
		SeeYou:            "We look forward to seeing you on %s at %s (JST).",
		CancelledIntro:    "The following booking has been cancelled.",
		RescheduleInfo:    "Original: %s\nNew: %s",
		ZoomLink:          "Zoom link",
		ManageLink:        "Manage your booking",
		Contact:           "If you have any questions, feel free to reach out.",
		TeamName:          "J-Global Business School",
	},
}

func copyFor(locale string) copySet {
	if c, ok := copyByLocale[locale]; ok {
		return c
	}
	return copyByLocale["ja"]
}

// greetingName follows Japanese convention of addressing by family name.
func greetingName(locale, firstName, lastName string) string {
	if locale != "en" {
		return lastName
	}
	return firstName
}
