package attendance

import "fmt"

var seedClasses = []struct {
	key, name string
	size      int
}{
	{key: "1-1", name: "1年1組", size: 30},
	{key: "1-2", name: "1年2組", size: 36},
	{key: "1-3", name: "1年3組", size: 40},
}

// SeedClasses returns the built-in classes used when there is no data at all.
// Every student starts present on `date`.
func SeedClasses(date string) []ClassData {
	classes := make([]ClassData, 0, len(seedClasses))
	for _, sc := range seedClasses {
		students := make([]Student, sc.size)
		for i := range students {
			n := i + 1
			students[i] = Student{
				ID:       fmt.Sprintf("student-%s-%d", sc.key, n),
				Number:   n,
				Name:     fmt.Sprintf("生徒 %d", n),
				LastName: fmt.Sprintf("生徒%d", n), // keeps the number visible in compact rendering
				Records:  []AttendanceRecord{{Date: date, Status: StatusPresent}},
			}
		}
		classes = append(classes, ClassData{ID: "class-" + sc.key, Name: sc.name, Students: students})
	}
	return classes
}
