package domain

import "strings"

// Normalize 去掉末尾的点并转为小写
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}

// FQDN 返回以点结尾的完整域名 (Route53/华为云记录集名称格式)
func FQDN(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// ExtractMainDomain 从完整域名提取主域名
// 例如: www.example.com -> example.com, sub.test.example.com -> example.com
func ExtractMainDomain(domain string) string {
	parts := strings.Split(Normalize(domain), ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return Normalize(domain)
}

// ExtractSubDomain 提取相对于区域的主机记录 (RR)
// 例如: _dnsauth.www.example.com 在区域 example.com 中为 _dnsauth.www，区域本身为 @
func ExtractSubDomain(fullRecord, zone string) string {
	fullRecord = Normalize(fullRecord)
	zone = Normalize(zone)
	if fullRecord == zone {
		return "@"
	}
	if strings.HasSuffix(fullRecord, "."+zone) {
		return strings.TrimSuffix(fullRecord, "."+zone)
	}
	return fullRecord
}

// IsSubDomain 检查是否为区域内的域名
func IsSubDomain(domain, zone string) bool {
	domain = Normalize(domain)
	zone = Normalize(zone)
	return strings.HasSuffix(domain, "."+zone) || domain == zone
}

// Unquote 去掉TXT记录值两侧的引号
func Unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
