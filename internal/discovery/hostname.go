package discovery

import "regexp"

// hostnamePattern captures the value of the BMAC agent-install hostname
// annotation, tolerating optional single or double quoting.
var hostnamePattern = regexp.MustCompile(`bmac\.agent-install\.openshift\.io/hostname:\s*["']?([^"'\s]+)["']?`)

// ExtractHostname returns the first annotated hostname in content, or
// ("", false) when no annotation is present. Content that is not valid YAML
// is fine; the match is purely textual.
func ExtractHostname(content []byte) (string, bool) {
	match := hostnamePattern.FindSubmatch(content)
	if len(match) > 1 {
		return string(match[1]), true
	}
	return "", false
}
