package reservation

import "fmt"

func extendNotice(days int) string {
	if days == 1 {
		return "Rental end date extended by 1 day!"
	}
	return fmt.Sprintf("Rental end date extended by %d days!", days)
}
