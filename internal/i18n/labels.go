// File: internal/i18n/labels.go (complete file)

package i18n

// Label keys used by the text report.
const (
	LabelTitle          = "title"
	LabelIP             = "ip"
	LabelLocation       = "location"
	LabelCountry        = "country"
	LabelRegion         = "region"
	LabelCity           = "city"
	LabelPostal         = "postal"
	LabelCoordinates    = "coordinates"
	LabelTimezone       = "timezone"
	LabelISP            = "isp"
	LabelOrg            = "org"
	LabelAS             = "as"
	LabelNetwork        = "network"
	LabelConnectionType = "connection_type"
	LabelSecurity       = "security"
	LabelIPv6           = "ipv6"
	LabelDNSServers     = "dns_servers"
	LabelResponseTime   = "response_time"
	LabelSources        = "sources"
	LabelSupported      = "supported"
	LabelNotSupported   = "not_supported"
	LabelProxy          = "proxy"
	LabelHosting        = "hosting"
	LabelMobile         = "mobile"
	LabelYes            = "yes"
	LabelNo             = "no"
	LabelError          = "error"
	LabelFallbackNotice = "fallback_notice"
	LabelProxyDetected  = "proxy_detected"
	LabelDirect         = "direct_connection"
	LabelBroadband      = "broadband"
	LabelMilliseconds   = "ms"
	LabelRun            = "run"
)

var labels = map[Language]map[string]string{
	English: {
		LabelTitle:          "IP Information",
		LabelIP:             "IP address",
		LabelLocation:       "Location",
		LabelCountry:        "Country",
		LabelRegion:         "Region",
		LabelCity:           "City",
		LabelPostal:         "Postal code",
		LabelCoordinates:    "Coordinates",
		LabelTimezone:       "Timezone",
		LabelISP:            "ISP",
		LabelOrg:            "Organization",
		LabelAS:             "AS",
		LabelNetwork:        "Network status",
		LabelConnectionType: "Connection type",
		LabelSecurity:       "Security",
		LabelIPv6:           "IPv6",
		LabelDNSServers:     "DNS servers",
		LabelResponseTime:   "Response time",
		LabelSources:        "Sources",
		LabelSupported:      "Supported",
		LabelNotSupported:   "Not supported",
		LabelProxy:          "Proxy",
		LabelHosting:        "Hosting",
		LabelMobile:         "Mobile",
		LabelYes:            "yes",
		LabelNo:             "no",
		LabelError:          "Error",
		LabelFallbackNotice: "Location details unavailable, showing defaults",
		LabelProxyDetected:  "Proxy Detected",
		LabelDirect:         "Direct Connection",
		LabelBroadband:      "Broadband",
		LabelMilliseconds:   "ms",
		LabelRun:            "Run",
	},
	Persian: {
		LabelTitle:          "اطلاعات IP",
		LabelIP:             "آدرس IP",
		LabelLocation:       "موقعیت",
		LabelCountry:        "کشور",
		LabelRegion:         "منطقه",
		LabelCity:           "شهر",
		LabelPostal:         "کد پستی",
		LabelCoordinates:    "مختصات",
		LabelTimezone:       "منطقه زمانی",
		LabelISP:            "ارائه‌دهنده اینترنت",
		LabelOrg:            "سازمان",
		LabelAS:             "AS",
		LabelNetwork:        "وضعیت شبکه",
		LabelConnectionType: "نوع اتصال",
		LabelSecurity:       "امنیت",
		LabelIPv6:           "IPv6",
		LabelDNSServers:     "سرورهای DNS",
		LabelResponseTime:   "زمان پاسخ",
		LabelSources:        "منابع",
		LabelSupported:      "پشتیبانی می‌شود",
		LabelNotSupported:   "پشتیبانی نمی‌شود",
		LabelProxy:          "پروکسی",
		LabelHosting:        "میزبانی",
		LabelMobile:         "موبایل",
		LabelYes:            "بله",
		LabelNo:             "خیر",
		LabelError:          "خطا",
		LabelFallbackNotice: "جزئیات موقعیت در دسترس نیست، مقادیر پیش‌فرض نمایش داده می‌شود",
		LabelProxyDetected:  "پروکسی شناسایی شد",
		LabelDirect:         "اتصال مستقیم",
		LabelBroadband:      "پهن‌باند",
		LabelMilliseconds:   "میلی‌ثانیه",
		LabelRun:            "اجرا",
	},
}

// T returns the label for key in l, falling back to English and then to the key.
func (l Language) T(key string) string {
	if s, ok := labels[l][key]; ok {
		return s
	}
	if s, ok := labels[English][key]; ok {
		return s
	}
	return key
}
