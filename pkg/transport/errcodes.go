package transport

import (
	"fmt"
	"regexp"
	"strconv"
)

// extendedErrorPattern matches numeric extended error results enabled by AT+CMEE=1.
var extendedErrorPattern = regexp.MustCompile(`^\+CM[ES] ERROR: (\d+)$`)

// errorCodeText maps extended error codes to a readable description.
// Codes 0-100 are from 3GPP TS 27.007; codes above 512 are modem specific
// and reported by the credential management commands.
var errorCodeText = map[int]string{
	0:   "Phone failure",
	3:   "Operation not allowed",
	4:   "Operation not supported",
	10:  "SIM not inserted",
	20:  "Memory full",
	21:  "Invalid index",
	22:  "Not found",
	50:  "Incorrect parameters",
	100: "Unknown error",
	513: "Not found",
	514: "Not allowed",
	515: "Memory full",
	518: "Not allowed in active state",
	519: "Already exists",
	520: "Key generation failed",
	523: "Invalid credential",
	524: "Modem not activated",
}

// ParseErrorCode extracts the numeric code from a "+CME ERROR: <n>" or
// "+CMS ERROR: <n>" line.
func ParseErrorCode(line string) (int, bool) {
	m := extendedErrorPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

// DescribeErrorCode returns the readable text for code, or the raw code
// when it is not in the table.
func DescribeErrorCode(code int) string {
	if text, ok := errorCodeText[code]; ok {
		return text
	}
	return fmt.Sprintf("error code %d", code)
}
