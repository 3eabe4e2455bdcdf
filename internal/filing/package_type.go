package filing

import "strings"

// PackageType is the filing scheme of an entry. It drives fees and the
// sub-resources linked on the transaction.
type PackageType string

const (
	PackageTypeUKSEF                  PackageType = "uksef"
	PackageTypeWelsh                  PackageType = "welsh"
	PackageTypeCIC                    PackageType = "cic"
	PackageTypeLimitedPartnership     PackageType = "limited-partnership"
	PackageTypeGroupPackage400        PackageType = "group-package-400"
	PackageTypeGroupPackage401        PackageType = "group-package-401"
	PackageTypeOverseas               PackageType = "overseas"
	PackageTypeAuditExemptSubsidiary  PackageType = "audit-exempt-subsidiary"
	PackageTypeFilingExemptSubsidiary PackageType = "filing-exempt-subsidiary"
)

var packageTypeLabels = map[PackageType]string{
	PackageTypeUKSEF:                  "uksef",
	PackageTypeWelsh:                  "welsh",
	PackageTypeCIC:                    "community interest company",
	PackageTypeLimitedPartnership:     "limited partnership",
	PackageTypeGroupPackage400:        "group package section 400",
	PackageTypeGroupPackage401:        "group package section 401",
	PackageTypeOverseas:               "overseas",
	PackageTypeAuditExemptSubsidiary:  "audit exempt subsidiary",
	PackageTypeFilingExemptSubsidiary: "filing exempt subsidiary",
}

// LookupPackageType resolves raw, ignoring case and surrounding spaces.
func LookupPackageType(raw string) (PackageType, bool) {
	pt := PackageType(strings.ToLower(strings.TrimSpace(raw)))

	if _, ok := packageTypeLabels[pt]; !ok {
		return "", false
	}

	return pt, true
}

// Label is the lower case human readable name of the package type.
func (pt PackageType) Label() string {
	return packageTypeLabels[pt]
}

// AttractsFee reports whether filing this package type is charged.
func (pt PackageType) AttractsFee() bool {
	return pt == PackageTypeCIC || pt == PackageTypeOverseas
}

func (pt PackageType) String() string {
	return string(pt)
}
