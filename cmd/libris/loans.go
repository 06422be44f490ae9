package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const dueDateLayout = "2006-01-02"

func parseDueDate(raw string) (time.Time, error) {
	due, err := time.ParseInLocation(dueDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", raw)
	}
	// A date names its whole day; the copy is due at the end of it.
	return due.Add(24*time.Hour - time.Second), nil
}

func newBorrowCmd(a **app) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "borrow <bookID>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			dueDate, err := parseDueDate(due)
			if err != nil {
				return err
			}
			loan, err := (*a).loanService(sess).Borrow(cmd.Context(), args[0], dueDate)
			if err != nil {
				return err
			}
			fmt.Printf("Borrowed %q, due %s\n", loan.BookTitle, loan.DueDate.Format(dueDateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newReturnCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <bookID>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			if err := (*a).loanService(sess).Return(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Returned.")
			return nil
		},
	}
}

func newLoansCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List your loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			svc := (*a).loanService(sess)
			loans, err := svc.Loans(cmd.Context())
			if err != nil {
				return err
			}
			if len(loans) == 0 {
				fmt.Println("No loans.")
				return nil
			}
			now := time.Now()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS\tPENALTY")
			for _, l := range loans {
				status := "active"
				switch {
				case l.IsReturned:
					status = "returned"
				case l.OverdueAt(now):
					status = "OVERDUE"
				}
				penalty := ""
				if fee := svc.ProjectedPenalty(l); fee > 0 {
					penalty = fmt.Sprintf("%.2f", fee)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					l.ID, l.BookTitle, l.DueDate.Format(dueDateLayout), status, penalty)
			}
			return w.Flush()
		},
	}
}

func newLoanAdminCmd(a **app) *cobra.Command {
	root := &cobra.Command{
		Use:   "loan",
		Short: "Librarian loan administration",
	}

	var due string
	editDue := &cobra.Command{
		Use:   "edit-due <loanID>",
		Short: "Change an active loan's due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			dueDate, err := parseDueDate(due)
			if err != nil {
				return err
			}
			svc := (*a).loanService(sess)
			loan, ok, err := (*a).client.GetBorrowedBookByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("loan %s not found", args[0])
			}
			updated, err := svc.EditDueDate(cmd.Context(), loan, dueDate)
			if err != nil {
				return err
			}
			fmt.Printf("Due date for %q is now %s\n", updated.BookTitle, updated.DueDate.Format(dueDateLayout))
			return nil
		},
	}
	editDue.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	_ = editDue.MarkFlagRequired("due")

	markReturned := &cobra.Command{
		Use:   "mark-returned <loanID>",
		Short: "Mark a loan returned on the patron's behalf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			loan, ok, err := (*a).client.GetBorrowedBookByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("loan %s not found", args[0])
			}
			updated, err := (*a).loanService(sess).MarkReturned(cmd.Context(), loan, time.Now())
			if err != nil {
				return err
			}
			if updated.PenaltyPrice > 0 {
				fmt.Printf("Returned with penalty %.2f\n", updated.PenaltyPrice)
			} else {
				fmt.Println("Returned, no penalty.")
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <loanID>",
		Short: "Delete a loan record (administrative bypass)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := (*a).requireSession()
			if err != nil {
				return err
			}
			if err := (*a).loanService(sess).AdminDelete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}

	root.AddCommand(editDue, markReturned, del)
	return root
}
