package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	book "github.com/emrgen/book"
	"github.com/emrgen/book/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var partCmd = &cobra.Command{
	Use:   "part",
	Short: "part commands",
}

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "chapter commands",
}

func init() {
	rootCmd.AddCommand(createBookCmd())
	rootCmd.AddCommand(getBookCmd())
	rootCmd.AddCommand(listBooksCmd())
	rootCmd.AddCommand(updateBookCmd())
	rootCmd.AddCommand(publishBookCmd())
	rootCmd.AddCommand(unpublishBookCmd())
	rootCmd.AddCommand(listVersionsCmd())
	rootCmd.AddCommand(deleteBookCmd())

	rootCmd.AddCommand(partCmd)
	partCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	partCmd.AddCommand(addPartCmd())
	partCmd.AddCommand(listPartsCmd())

	rootCmd.AddCommand(chapterCmd)
	chapterCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	chapterCmd.AddCommand(addChapterCmd())
	chapterCmd.AddCommand(listChaptersCmd())
	chapterCmd.AddCommand(moveChapterCmd())
	chapterCmd.AddCommand(reorderChaptersCmd())
}

// apiClient builds a client against the context addr, falling back to
// the default local server port.
func apiClient() *book.Client {
	addr := readContext().Addr
	if addr == "" {
		addr = "http://localhost:4020"
	}
	return book.NewClient(addr)
}

// contextUserID resolves the user id from the flag or the saved context.
func contextUserID(userID string) string {
	if userID != "" {
		return userID
	}
	return readContext().UserID
}

func createBookCmd() *cobra.Command {
	var userID string
	var title string
	var summary string

	var required = []string{"title"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a book",
		Example: "book create -u <user-id> -t <title> -s <summary>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			created, err := client.CreateBook(context.Background(), contextUserID(userID), book.CreateBookRequest{
				Title:   title,
				Summary: summary,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("book created with id: %s", created.ID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&title, "title", "t", "", "title of the book (required)")
	command.Flags().StringVarP(&summary, "summary", "s", "", "summary of the book")

	command.Flags().SortFlags = false

	return command
}

func getBookCmd() *cobra.Command {
	var userID string
	var bookID string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a book with its full structure",
		Example: "book get -u <user-id> -b <book-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			view, err := client.GetBookView(context.Background(), contextUserID(userID), bookID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Title", view.Book.Title)
			printField("Status", string(view.Book.Status))
			printField("Summary", view.Book.Summary)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Part", "Title", "Chapters"})
			for i, part := range view.Parts {
				table.Append([]string{service.PartOrdinal(i + 1), part.Part.Title, strconv.Itoa(len(part.Chapters))})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")

	command.Flags().SortFlags = false

	return command
}

func listBooksCmd() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:   "list",
		Short: "list books",
		Run: func(cmd *cobra.Command, args []string) {
			client := apiClient()
			books, err := client.ListBooks(context.Background(), contextUserID(userID))
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Status"})
			for _, b := range books {
				table.Append([]string{b.ID, b.Title, string(b.Status)})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().SortFlags = false

	return command
}

func updateBookCmd() *cobra.Command {
	var userID string
	var bookID string
	var title string
	var summary string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a book",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := book.UpdateBookRequest{}
			if title != "" {
				req.Title = &title
			}
			if summary != "" {
				req.Summary = &summary
			}

			client := apiClient()
			updated, err := client.UpdateBook(context.Background(), contextUserID(userID), bookID, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title"})
			table.Append([]string{updated.ID, updated.Title})
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "title")
	command.Flags().StringVarP(&summary, "summary", "s", "", "summary")

	command.Flags().SortFlags = false

	return command
}

func publishBookCmd() *cobra.Command {
	var userID string
	var bookID string
	var version string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:     "publish",
		Short:   "publish a book snapshot",
		Example: "book publish -u <user-id> -b <book-id> -v <version>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if version != "" && !checkValidSemver(version) {
				color.Red("invalid version: %s, expected a semver like 0.1.0", version)
				return
			}

			client := apiClient()
			out, err := client.PublishBook(context.Background(), contextUserID(userID), bookID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("book %s published at version %s", out["id"], out["version"])
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&version, "version", "v", "", "version to publish, next patch when omitted")

	command.Flags().SortFlags = false

	return command
}

func unpublishBookCmd() *cobra.Command {
	var userID string
	var bookID string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:   "unpublish",
		Short: "unpublish a book",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			if err := client.UnpublishBook(context.Background(), contextUserID(userID), bookID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("book %s unpublished", bookID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")

	command.Flags().SortFlags = false

	return command
}

func listVersionsCmd() *cobra.Command {
	var userID string
	var bookID string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:   "versions",
		Short: "list published versions of a book",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			versions, err := client.ListPublishedVersions(context.Background(), contextUserID(userID), bookID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Published At"})
			for _, v := range versions {
				table.Append([]string{v.Version, v.CreatedAt})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")

	command.Flags().SortFlags = false

	return command
}

func deleteBookCmd() *cobra.Command {
	var userID string
	var bookID string
	var cascade bool

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a book",
		Long: `Delete a book with the given id.

Constraint:
 1. without --cascade only the book row is removed, its parts survive.
 2. with --cascade the whole subtree goes away in one transaction.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if !cascade {
				color.Magenta("deleting book shallowly, descendants survive: %s\n", bookID)
			}

			client := apiClient()
			if err := client.DeleteBook(context.Background(), contextUserID(userID), bookID, cascade); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("book deleted: %s", bookID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().BoolVarP(&cascade, "cascade", "c", false, "delete the whole subtree")

	command.Flags().SortFlags = false

	return command
}

func addPartCmd() *cobra.Command {
	var userID string
	var bookID string
	var title string

	var required = []string{"book-id", "title"}

	command := &cobra.Command{
		Use:   "add",
		Short: "add a part to a book",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			part, err := client.CreatePart(context.Background(), contextUserID(userID), bookID, book.CreateChildRequest{Title: title})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("part created with id: %s", part.ID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "title of the part (required)")

	command.Flags().SortFlags = false

	return command
}

func listPartsCmd() *cobra.Command {
	var userID string
	var bookID string

	var required = []string{"book-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list parts of a book",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			parts, err := client.ListParts(context.Background(), contextUserID(userID), bookID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Part", "ID", "Title"})
			for i, part := range parts {
				table.Append([]string{service.PartOrdinal(i + 1), part.ID, part.Title})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")

	command.Flags().SortFlags = false

	return command
}

func addChapterCmd() *cobra.Command {
	var userID string
	var bookID string
	var partID string
	var title string

	var required = []string{"book-id", "part-id", "title"}

	command := &cobra.Command{
		Use:   "add",
		Short: "add a chapter to a part",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			chapter, err := client.CreateChapter(context.Background(), contextUserID(userID), bookID, partID, book.CreateChildRequest{Title: title})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("chapter created with id: %s", chapter.ID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&partID, "part-id", "p", "", "part id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "title of the chapter (required)")

	command.Flags().SortFlags = false

	return command
}

func listChaptersCmd() *cobra.Command {
	var userID string
	var bookID string
	var partID string

	var required = []string{"book-id", "part-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list chapters of a part",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			chapters, err := client.ListChapters(context.Background(), contextUserID(userID), bookID, partID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Title", "Status"})
			for i, chapter := range chapters {
				table.Append([]string{strconv.Itoa(i + 1), chapter.ID, chapter.Title, string(chapter.Status)})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&partID, "part-id", "p", "", "part id (required)")

	command.Flags().SortFlags = false

	return command
}

func moveChapterCmd() *cobra.Command {
	var userID string
	var bookID string
	var partID string
	var chapterID string
	var toPartID string

	var required = []string{"book-id", "part-id", "chapter-id", "to-part-id"}

	command := &cobra.Command{
		Use:     "move",
		Short:   "move a chapter to another part",
		Example: "book chapter move -b <book-id> -p <part-id> -c <chapter-id> -P <to-part-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := apiClient()
			moved, err := client.MoveChapter(context.Background(), contextUserID(userID), bookID, partID, chapterID, book.MoveRequest{
				PartID: toPartID,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("chapter %s moved to part %s", moved.ID, moved.PartID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&partID, "part-id", "p", "", "source part id (required)")
	command.Flags().StringVarP(&chapterID, "chapter-id", "c", "", "chapter id (required)")
	command.Flags().StringVarP(&toPartID, "to-part-id", "P", "", "target part id (required)")

	command.Flags().SortFlags = false

	return command
}

func reorderChaptersCmd() *cobra.Command {
	var userID string
	var bookID string
	var partID string
	var order string

	var required = []string{"book-id", "part-id", "order"}

	command := &cobra.Command{
		Use:     "reorder",
		Short:   "reorder the chapters of a part",
		Example: "book chapter reorder -b <book-id> -p <part-id> -o <id1>,<id2>,<id3>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			ids := unique(strings.Split(order, ","))

			client := apiClient()
			err := client.ReorderChapters(context.Background(), contextUserID(userID), bookID, partID, ids)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("chapters reordered in part %s", partID)
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")
	command.Flags().StringVarP(&bookID, "book-id", "b", "", "book id (required)")
	command.Flags().StringVarP(&partID, "part-id", "p", "", "part id (required)")
	command.Flags().StringVarP(&order, "order", "o", "", "comma separated chapter ids in the new order (required)")

	command.Flags().SortFlags = false

	return command
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}

func checkValidSemver(ver string) bool {
	_, err := semver.NewVersion(ver)
	return err == nil
}

// unique returns a slice with unique elements
func unique(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	j := 0
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		s[j] = v
		j++
	}
	return s[:j]
}
