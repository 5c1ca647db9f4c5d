package main

import "github.com/trezcool/shusseki/core/attendance"

func (cli *commandLine) seating(path, classID, order string) error {
	cls, err := cli.findClass(path, classID)
	if err != nil {
		return err
	}
	numbers := attendance.ParseSeatNumbers(order)
	if len(numbers) == 0 {
		return attendance.ErrEmptyInput
	}
	cli.printClass(attendance.ReorderStudents(cls, numbers))
	return nil
}
