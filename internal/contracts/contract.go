package contracts

import "strings"

// Name identifies a contract ABI; it is also the ABI file name without the
// .json extension.
type Name string

const (
	NameCAO                   Name = "CAO"
	NameCAOToken              Name = "CAOToken"
	NameCAOParameters         Name = "CAOParameters"
	NameHR                    Name = "HumanResources"
	NameMainFund              Name = "MainFund"
	NameMainFundToken         Name = "MainFundToken"
	NameAccounting            Name = "Accounting"
	NameFrontOffice           Name = "FrontOffice"
	NameFrontOfficeParameters Name = "FrontOfficeParameters"
	NameIncentivesManager     Name = "IncentivesManager"
	NameIncentive             Name = "IIncentive"
	NameERC20                 Name = "ERC20"
)

var labels = map[Name]string{
	NameCAO:                   "CAO",
	NameCAOToken:              "CAO Token",
	NameCAOParameters:         "CAO Parameters",
	NameHR:                    "HR",
	NameMainFund:              "Main Fund",
	NameMainFundToken:         "Main Fund Token",
	NameAccounting:            "Accounting",
	NameFrontOffice:           "Front Office",
	NameFrontOfficeParameters: "Front Office Parameters",
	NameIncentivesManager:     "Incentives Manager",
	NameIncentive:             "Incentive",
	NameERC20:                 "ERC20",
}

var (
	// specificContracts are deployed once, at configured addresses.
	specificContracts = []Name{NameCAO, NameCAOToken, NameCAOParameters, NameHR}

	// genericContracts may sit at any address. Order matters: on a selector
	// clash the earlier contract wins.
	genericContracts = []Name{
		NameMainFund,
		NameMainFundToken,
		NameAccounting,
		NameFrontOffice,
		NameIncentivesManager,
		NameERC20,
	}

	// supportContracts are only read from, never proposed against.
	supportContracts = []Name{NameFrontOfficeParameters, NameIncentive}
)

// Label is the display name used in decoded calls.
func (n Name) Label() string {
	if label, ok := labels[n]; ok {
		return label
	}
	return string(n)
}

// All lists every known contract.
func All() []Name {
	all := make([]Name, 0, len(specificContracts)+len(genericContracts)+len(supportContracts))
	all = append(all, specificContracts...)
	all = append(all, genericContracts...)
	return append(all, supportContracts...)
}

// ByLabel finds a contract by display name or ABI name, ignoring case.
func ByLabel(label string) (Name, bool) {
	for _, name := range All() {
		if equalFold(name.Label(), label) || equalFold(string(name), label) {
			return name, true
		}
	}
	return "", false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
