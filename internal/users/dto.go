package users

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type onboardingRequest struct {
	Industry    string    `json:"industry"`
	SubIndustry string    `json:"subIndustry"`
	Experience  flexInt   `json:"experience"`
	Skills      skillList `json:"skills"`
	Bio         string    `json:"bio"`
}

// flexInt accepts 7 or "7".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("experience must be a number")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("experience must be a number")
	}
	*f = flexInt(n)
	return nil
}

// skillList accepts ["a","b"] or "a, b".
type skillList []string

func (l *skillList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("skills must be a string or a list")
	}
	*l = strings.Split(s, ",")
	return nil
}
