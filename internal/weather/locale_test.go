package weather

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestNewLocalizerMatchesLocale(t *testing.T) {
	cases := map[string]language.Tag{
		"zh-CN": language.SimplifiedChinese,
		"zh":    language.SimplifiedChinese,
		"en-US": language.English,
		"fr":    language.English,
		"":      language.English,
	}
	for in, want := range cases {
		if got := NewLocalizer(in).Tag(); got != want {
			t.Errorf("NewLocalizer(%q).Tag() = %v, want %v", in, got, want)
		}
	}
}

func TestLocalizerConditionLabels(t *testing.T) {
	zh := NewLocalizer("zh-CN")
	en := NewLocalizer("en")

	if got := zh.CodeLabel(0); got != "晴朗" {
		t.Errorf("zh clear = %q", got)
	}
	if got := zh.CodeLabel(99); got != "雷暴伴大冰雹" {
		t.Errorf("zh 99 = %q", got)
	}
	if got := zh.CodeLabel(42); got != "未知天气" {
		t.Errorf("zh unknown = %q", got)
	}
	if got := en.CodeLabel(0); got != "Clear" {
		t.Errorf("en clear = %q", got)
	}
	if got := en.CodeLabel(1234); got != "Unknown" {
		t.Errorf("en unknown = %q", got)
	}
	// 45 and 48 share the Fog condition but not the label.
	if got := zh.CodeLabel(45); got != "雾" {
		t.Errorf("zh 45 = %q", got)
	}
	if got := zh.CodeLabel(48); got != "雾凇" {
		t.Errorf("zh 48 = %q", got)
	}
	if ConditionForCode(48) != ConditionFog {
		t.Errorf("48 condition = %q, want Fog", ConditionForCode(48))
	}
	if got := en.CodeLabel(48); got != "Depositing rime fog" {
		t.Errorf("en 48 = %q", got)
	}
	for code := range codeConditions {
		if label := en.CodeLabel(code); label == "" || strings.HasPrefix(label, "condition.") || strings.HasPrefix(label, "code.") {
			t.Errorf("code %d has no English label: %q", code, label)
		}
	}
}

func TestLocalizerCompass(t *testing.T) {
	zh := NewLocalizer("zh-CN")
	want := []string{"北", "东北", "东", "东南", "南", "西南", "西", "西北"}
	for i, w := range want {
		if got := zh.Compass(float64(i * 45)); got != w {
			t.Errorf("compass(%d) = %q, want %q", i*45, got, w)
		}
	}
	if got := NewLocalizer("en").Compass(90); got != "East" {
		t.Errorf("en compass(90) = %q", got)
	}
}

func TestLocalizerPhrase(t *testing.T) {
	zh := NewLocalizer("zh-CN")
	for phrase, label := range zhPhrases {
		if got := zh.Phrase(strings.ToUpper(phrase)); got != label {
			t.Errorf("Phrase(%q) = %q, want %q", strings.ToUpper(phrase), got, label)
		}
	}
	for _, phrase := range []string{"light rain", "Moderate Rain", "晴", ""} {
		if got := zh.Phrase(phrase); got != phrase {
			t.Errorf("Phrase(%q) = %q, want unchanged", phrase, got)
		}
	}
	if got := NewLocalizer("en").Phrase("clear sky"); got != "clear sky" {
		t.Errorf("english locale should pass phrases through, got %q", got)
	}
}

func TestLocalizerDayLabel(t *testing.T) {
	if got := NewLocalizer("zh-CN").DayLabel("2026-10-05"); got != "10月5日" {
		t.Errorf("zh day label = %q", got)
	}
	if got := NewLocalizer("en").DayLabel("2026-10-05"); got != "Oct 5" {
		t.Errorf("en day label = %q", got)
	}
	if got := NewLocalizer("en").DayLabel("soon"); got != "soon" {
		t.Errorf("bad date should pass through, got %q", got)
	}
}

func TestLocalizerErrorMessage(t *testing.T) {
	zh := NewLocalizer("zh-CN")
	msg := zh.ErrorMessage(&FetchError{Kind: KindInvalidCredential, Status: 401})
	for _, want := range []string{"API Key是否正确", "是否已激活", "配额"} {
		if !strings.Contains(msg, want) {
			t.Errorf("401 message %q lacks %q", msg, want)
		}
	}

	msg = NewLocalizer("en").ErrorMessage(&FetchError{Kind: KindProviderError, Status: 500, Body: "boom"})
	if msg != "Failed to fetch weather data: 500 - boom" {
		t.Errorf("provider error message = %q", msg)
	}

	msg = NewLocalizer("en").ErrorMessage(NewFetchError(KindTransport, errors.New("dial tcp: refused")))
	if msg != "Network error: dial tcp: refused" {
		t.Errorf("transport message = %q", msg)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(0, 8*3600); got != "08:00" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := FormatClock(1760480000, 0); got != "22:13" {
		t.Errorf("FormatClock UTC = %q", got)
	}
}
