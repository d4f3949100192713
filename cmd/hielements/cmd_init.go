package main

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ercasta/hielements/internal/scaffold"
)

var initDirectory string

var initCmd = &cobra.Command{
	Use:   "init <project_name>",
	Short: "Initialize a new Hielements project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(args[0])
	},
}

func init() {
	initCmd.Flags().StringVarP(&initDirectory, "directory", "d", "", "target directory (defaults to current directory)")
}

func runInit(projectName string) error {
	for _, r := range projectName {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fail(2, "project name must contain only alphanumeric characters and underscores")
		}
	}

	targetDir := initDirectory
	if targetDir == "" {
		targetDir = "."
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fail(2, "failed to create directory %q: %w", targetDir, err)
	}

	files := scaffold.Generate(projectName)
	hiePath := filepath.Join(targetDir, files.HieFileName)
	configPath := filepath.Join(targetDir, files.ConfigName)
	guidePath := filepath.Join(targetDir, files.GuideName)

	if _, err := os.Stat(hiePath); err == nil {
		return fail(2, "file %q already exists", hiePath)
	}
	if err := os.WriteFile(hiePath, []byte(files.HieContent), 0o644); err != nil {
		return fail(2, "failed to write %q: %w", hiePath, err)
	}

	configExisted := pathExists(configPath)
	if !configExisted {
		if err := os.WriteFile(configPath, []byte(files.ConfigContent), 0o644); err != nil {
			return fail(2, "failed to write %q: %w", configPath, err)
		}
	} else {
		fmt.Printf("%s '%s' already exists, skipping\n", color.BlueString("Info"), configPath)
	}

	guideExisted := pathExists(guidePath)
	if !guideExisted {
		if err := os.WriteFile(guidePath, []byte(files.GuideContent), 0o644); err != nil {
			return fail(2, "failed to write %q: %w", guidePath, err)
		}
	} else {
		fmt.Printf("%s '%s' already exists, skipping\n", color.BlueString("Info"), guidePath)
	}

	fmt.Printf("%s Initialized Hielements project '%s'\n\n", color.GreenString("Success"), projectName)
	fmt.Println("Created files:")
	fmt.Printf("  %s - Initial architecture specification\n", color.CyanString(hiePath))
	if !configExisted {
		fmt.Printf("  %s - Configuration for custom libraries\n", color.CyanString(configPath))
	}
	if !guideExisted {
		fmt.Printf("  %s - Quick reference guide\n", color.CyanString(guidePath))
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Edit %s to describe your architecture\n", color.CyanString(hiePath))
	fmt.Printf("  2. Run %s to validate\n", color.YellowString("hielements check "+hiePath))
	fmt.Printf("  3. Run %s to execute checks\n", color.YellowString("hielements run "+hiePath))
	fmt.Println()
	fmt.Printf("For AI agents: see %s for language syntax and available commands\n", color.CyanString(guidePath))
	return nil
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
