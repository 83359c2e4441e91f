package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	contextFilePath = "./.tmp/book.json"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	rootCmd.AddCommand(contextCommand)
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Addr   string `json:"addr"`
	UserID string `json:"userId"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var addr string
	var userID string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if addr == "" && userID == "" {
				color.Red(`missing: --addr or --user-id`)
				return
			}

			ctx := readContext()
			if addr != "" {
				ctx.Addr = addr
			}
			if userID != "" {
				ctx.UserID = userID
			}

			writeContext(ctx)
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&addr, "addr", "a", "", "server address")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "user id")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			printField("Addr", ctx.Addr)
			printField("UserID", ctx.UserID)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

func writeContext(context Context) {
	if err := os.MkdirAll("./.tmp", os.ModePerm); err != nil {
		fmt.Println("error creating config dir: ", err)
		return
	}

	data, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		fmt.Println("error encoding config file: ", err)
		return
	}

	if err := os.WriteFile(contextFilePath, data, 0o644); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	data, err := os.ReadFile(contextFilePath)
	if err != nil {
		return ctx
	}

	if err := json.Unmarshal(data, &ctx); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	return ctx
}
