package validation

import (
	"regexp"
	"time"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	accountPattern = regexp.MustCompile(`^\d{9,18}$`)
	namePattern    = regexp.MustCompile(`^[A-Z][a-zA-Z\s]*$`)
	addressPattern = regexp.MustCompile(`^[a-zA-Z0-9\s,.\-/#]+$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateMobile accepts ten-digit Indian mobile numbers.
func ValidateMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

func ValidatePAN(pan string) bool {
	return panPattern.MatchString(pan)
}

func ValidateAadhaar(aadhaar string) bool {
	return aadhaarPattern.MatchString(aadhaar)
}

func ValidateIFSC(ifsc string) bool {
	return ifscPattern.MatchString(ifsc)
}

func ValidatePincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

func ValidateAccountNumber(account string) bool {
	return accountPattern.MatchString(account)
}

// ValidatePersonName requires a capitalised name of 2..50 letters and spaces.
func ValidatePersonName(name string) bool {
	return len(name) >= 2 && len(name) <= 50 && namePattern.MatchString(name)
}

// ValidateAddress requires 10..200 characters from a postal charset.
func ValidateAddress(address string) bool {
	return len(address) >= 10 && len(address) <= 200 && addressPattern.MatchString(address)
}

// AgeOn returns the completed years between a YYYY-MM-DD birth date and now.
func AgeOn(dateOfBirth string, now time.Time) (int, bool) {
	dob, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return 0, false
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}
