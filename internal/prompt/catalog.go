package prompt

import (
	"fmt"
	"strings"
)

// Kind groups selectable models by learning task.
type Kind string

const (
	KindRegression     Kind = "regression"
	KindClassification Kind = "classification"
)

var (
	// Regression lists the selectable regression models.
	Regression = []string{
		"Linear Regression",
		"Decision Tree Regression",
		"Random Forest Regression",
		"Gradient Boosting Regression",
		"Support Vector Regression",
	}
	// Classification lists the selectable classification models.
	Classification = []string{
		"Logistic Regression",
		"Decision Tree Classifier",
		"Random Forest Classifier",
		"Support Vector Classifier",
		"Naive Bayes Classifier",
		"Gradient Boosting Classifier",
		"KNN Classifier",
	}
)

// Catalog returns a copy of the selectable models keyed by kind.
func Catalog() map[Kind][]string {
	return map[Kind][]string{
		KindRegression:     append([]string(nil), Regression...),
		KindClassification: append([]string(nil), Classification...),
	}
}

// ParseKind accepts "regression" or "classification" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRegression:
		return KindRegression, nil
	case KindClassification:
		return KindClassification, nil
	}
	return "", fmt.Errorf("unknown model kind: %s (use regression|classification)", s)
}

// LookupKind reports which kind a selectable model name belongs to.
func LookupKind(name string) (Kind, bool) {
	for _, m := range Regression {
		if m == name {
			return KindRegression, true
		}
	}
	for _, m := range Classification {
		if m == name {
			return KindClassification, true
		}
	}
	return "", false
}
