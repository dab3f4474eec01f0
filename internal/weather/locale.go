package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is used when LOCALE is unset.
const DefaultLocale = "zh-CN"

// The first entry is the matcher's fallback.
var supportedLocales = []language.Tag{language.English, language.SimplifiedChinese}

// Column order of the label tables below.
var labelColumns = [2]language.Tag{language.SimplifiedChinese, language.English}

var conditionLabels = map[Condition][2]string{
	// {zh, en}
	ConditionClear:                 {"晴朗", "Clear"},
	ConditionMostlyClear:           {"主要晴朗", "Mostly clear"},
	ConditionPartlyCloudy:          {"部分多云", "Partly cloudy"},
	ConditionOvercast:              {"阴天", "Overcast"},
	ConditionFog:                   {"雾", "Fog"},
	ConditionDrizzleLight:          {"小毛毛雨", "Light drizzle"},
	ConditionDrizzleModerate:       {"中毛毛雨", "Moderate drizzle"},
	ConditionDrizzleDense:          {"浓毛毛雨", "Dense drizzle"},
	ConditionFreezingDrizzleLight:  {"冻毛毛雨", "Light freezing drizzle"},
	ConditionFreezingDrizzleDense:  {"浓冻毛毛雨", "Dense freezing drizzle"},
	ConditionRainLight:             {"小雨", "Light rain"},
	ConditionRainModerate:          {"中雨", "Moderate rain"},
	ConditionRainHeavy:             {"大雨", "Heavy rain"},
	ConditionFreezingRainLight:     {"冻雨", "Light freezing rain"},
	ConditionFreezingRainDense:     {"浓冻雨", "Dense freezing rain"},
	ConditionSnowLight:             {"小雪", "Light snow"},
	ConditionSnowModerate:          {"中雪", "Moderate snow"},
	ConditionSnowHeavy:             {"大雪", "Heavy snow"},
	ConditionSnowGrains:            {"雪粒", "Snow grains"},
	ConditionRainShowersLight:      {"小阵雨", "Light rain showers"},
	ConditionRainShowersModerate:   {"中阵雨", "Moderate rain showers"},
	ConditionRainShowersHeavy:      {"大阵雨", "Heavy rain showers"},
	ConditionSnowShowersLight:      {"小阵雪", "Light snow showers"},
	ConditionSnowShowersHeavy:      {"大阵雪", "Heavy snow showers"},
	ConditionThunderstorm:          {"雷暴", "Thunderstorm"},
	ConditionThunderstormHailLight: {"雷暴伴小冰雹", "Thunderstorm with light hail"},
	ConditionThunderstormHailHeavy: {"雷暴伴大冰雹", "Thunderstorm with heavy hail"},
	ConditionUnknown:               {"未知天气", "Unknown"},
}

// codeLabels refine the label of single codes that share a Condition.
var codeLabels = map[int][2]string{
	48: {"雾凇", "Depositing rime fog"},
}

var compassLabels = map[CompassPoint][2]string{
	North:     {"北", "North"},
	NorthEast: {"东北", "North-east"},
	East:      {"东", "East"},
	SouthEast: {"东南", "South-east"},
	South:     {"南", "South"},
	SouthWest: {"西南", "South-west"},
	West:      {"西", "West"},
	NorthWest: {"西北", "North-west"},
}

var errorMessages = map[ErrorKind][2]string{
	KindInvalidCredential: {
		"API Key无效。请检查：1) API Key是否正确 2) 是否已激活（新Key需等待5-10分钟） 3) 账户是否超出配额",
		"Invalid API key. Please check: 1) the API key is correct 2) the key has been activated (new keys take 5-10 minutes) 3) the account has not exceeded its quota",
	},
	KindLocationNotFound:  {"城市未找到", "City not found"},
	KindRateLimited:       {"API调用频率超限，请稍后重试", "API rate limit exceeded, please try again later"},
	KindProviderError:     {"获取天气数据失败: %d - %s", "Failed to fetch weather data: %d - %s"},
	KindTransport:         {"网络错误: %s", "Network error: %s"},
	KindMalformedResponse: {"天气数据格式错误: %s", "Malformed weather data: %s"},
	KindMissingCredential: {"请输入OpenWeatherMap API Key", "Please enter an OpenWeatherMap API key"},
}

// Free-text OpenWeatherMap descriptions. Only the Chinese locale translates.
var zhPhrases = map[string]string{
	"clear sky":        "晴朗",
	"few clouds":       "少云",
	"scattered clouds": "散云",
	"broken clouds":    "多云",
	"overcast clouds":  "阴天",
	"shower rain":      "阵雨",
	"rain":             "雨",
	"thunderstorm":     "雷暴",
	"snow":             "雪",
	"mist":             "薄雾",
	"fog":              "雾",
	"haze":             "霾",
	"dust":             "沙尘",
	"sand":             "沙暴",
	"ash":              "火山灰",
	"squall":           "飑",
	"tornado":          "龙卷风",
}

const (
	keyDayLabel = "day_label"
	keyUnknown  = "unknown_error"
)

var labelCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(key string, msgs [2]string) {
		for i, tag := range labelColumns {
			if err := b.SetString(tag, key, msgs[i]); err != nil {
				panic(fmt.Sprintf("weather: catalog entry %q: %v", key, err))
			}
		}
	}
	for c, msgs := range conditionLabels {
		set(conditionKey(c), msgs)
	}
	for code, msgs := range codeLabels {
		set(codeKey(code), msgs)
	}
	for p, msgs := range compassLabels {
		set(compassKey(p), msgs)
	}
	for k, msgs := range errorMessages {
		set(errorKey(k), msgs)
	}
	// Args: month number, day, abbreviated English month.
	set(keyDayLabel, [2]string{"%[1]d月%[2]d日", "%[3]s %[2]d"})
	set(keyUnknown, [2]string{"未知错误", "Unknown error"})
	return b
}

func conditionKey(c Condition) string  { return "condition." + string(c) }
func codeKey(code int) string          { return "code." + strconv.Itoa(code) }
func compassKey(p CompassPoint) string { return "compass." + string(p) }
func errorKey(k ErrorKind) string      { return "error." + string(k) }

// Localizer renders labels and messages for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	phrases map[string]string
}

// NewLocalizer matches locale (BCP 47, e.g. "zh-CN", "en") against the
// supported locales. Unsupported locales fall back to English.
func NewLocalizer(locale string) *Localizer {
	matcher := language.NewMatcher(supportedLocales)
	_, idx, _ := matcher.Match(language.Make(locale))
	tag := supportedLocales[idx]

	l := &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(labelCatalog)),
	}
	if tag == language.SimplifiedChinese {
		l.phrases = zhPhrases
	}
	return l
}

// Tag returns the matched locale.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Condition returns the localized label of c.
func (l *Localizer) Condition(c Condition) string {
	if _, ok := conditionLabels[c]; !ok {
		c = ConditionUnknown
	}
	return l.printer.Sprintf(conditionKey(c))
}

// CodeLabel returns the label for a WMO weather code. It is
// Condition(ConditionForCode(code)) except for codes with their own label.
func (l *Localizer) CodeLabel(code int) string {
	if _, ok := codeLabels[code]; ok {
		return l.printer.Sprintf(codeKey(code))
	}
	return l.Condition(ConditionForCode(code))
}

// Compass returns the localized compass label for a wind angle in degrees.
func (l *Localizer) Compass(deg float64) string {
	return l.printer.Sprintf(compassKey(CompassPointFor(deg)))
}

// Phrase translates a free-text provider description. Lookup ignores case;
// phrases outside the table are returned unchanged.
func (l *Localizer) Phrase(phrase string) string {
	if label, ok := l.phrases[strings.ToLower(phrase)]; ok {
		return label
	}
	return phrase
}

// DayLabel renders an ISO date (2006-01-02) as a short month/day label.
// Unparseable dates are returned unchanged.
func (l *Localizer) DayLabel(isoDate string) string {
	d, err := time.Parse(time.DateOnly, isoDate)
	if err != nil {
		return isoDate
	}
	return l.printer.Sprintf(keyDayLabel, int(d.Month()), d.Day(), d.Format("Jan"))
}

// ErrorMessage renders a user-visible message for a fetch failure.
func (l *Localizer) ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		return l.printer.Sprintf(keyUnknown) + ": " + err.Error()
	}
	switch fe.Kind {
	case KindProviderError:
		return l.printer.Sprintf(errorKey(fe.Kind), fe.Status, fe.Body)
	case KindTransport, KindMalformedResponse:
		detail := string(fe.Kind)
		if fe.Err != nil {
			detail = fe.Err.Error()
		}
		return l.printer.Sprintf(errorKey(fe.Kind), detail)
	default:
		return l.printer.Sprintf(errorKey(fe.Kind))
	}
}

// FormatClock renders epoch seconds as a 24h "15:04" time of day in a fixed
// UTC offset (seconds east of UTC).
func FormatClock(epoch int64, offsetSeconds int) string {
	zone := time.FixedZone("", offsetSeconds)
	return time.Unix(epoch, 0).In(zone).Format("15:04")
}
