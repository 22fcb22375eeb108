package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *sqlx.DB // nil for the records engine
	stdRepo student.Repository
	qstRepo question.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [up|down|status] - run database migrations (postgres engine only)")
	fmt.Println("  seed - load the starter question bank if the bank is empty")
	fmt.Println("  addstudent -name NAME -email EMAIL [-plan PLAN] - add or reactivate a student; the password is prompted next")
	fmt.Println("  addquestion -file FILE.json - add questions from a JSON file")
	fmt.Println("  resetpassword -email EMAIL - reset a student's password; the new password is prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email. The password will be prompted next.")
	addStudentPlan := addStudentCmd.String("plan", student.PlanFree, "The student's plan.")

	addQuestionCmd := flag.NewFlagSet("addquestion", flag.ExitOnError)
	addQuestionFile := addQuestionCmd.String("file", "", "Path to a JSON file holding an array of questions.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The student's email. The new password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])

	case "seed":
		return cli.seed()

	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentEmail == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				addStudentCmd.Usage()
			}
			return err
		}
		return cli.addStudent(*addStudentName, *addStudentEmail, pwd, *addStudentPlan)

	case "addquestion":
		if err := addQuestionCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addQuestionFile == "" {
			addQuestionCmd.Usage()
			return errHelp
		}
		return cli.addQuestions(*addQuestionFile)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
