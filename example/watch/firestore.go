package main

import (
	"errors"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
	"github.com/AntonStoeckl/observable-snapshots-go/snapshotarray/firestoresource"
)

var errMissingProject = errors.New("a firestore project id is required")

func newFirestoreCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firestore",
		Short: "Watch the documents of a Firestore collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFirestore(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("project", v.GetString(config.KeyFirestoreProject), "Google Cloud project id")
	flags.String("collection", v.GetString(config.KeyFirestoreCollection), "collection to watch")
	flags.String("credentials-file", v.GetString(config.KeyFirestoreCreds), "service account key, empty for default credentials")
	cobra.CheckErr(v.BindPFlag(config.KeyFirestoreProject, flags.Lookup("project")))
	cobra.CheckErr(v.BindPFlag(config.KeyFirestoreCollection, flags.Lookup("collection")))
	cobra.CheckErr(v.BindPFlag(config.KeyFirestoreCreds, flags.Lookup("credentials-file")))

	return cmd
}

// runFirestore watches a collection. Set FIRESTORE_EMULATOR_HOST to use the emulator.
func runFirestore(cmd *cobra.Command, v *viper.Viper) error {
	project := v.GetString(config.KeyFirestoreProject)
	if project == "" {
		return errMissingProject
	}

	var clientOptions []option.ClientOption
	if credentials := v.GetString(config.KeyFirestoreCreds); credentials != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credentials))
	}

	client, err := firestore.NewClient(cmd.Context(), project, clientOptions...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	logger := newLogger(v)
	mu := &sync.Mutex{}

	query := client.Collection(v.GetString(config.KeyFirestoreCollection)).
		OrderBy(v.GetString(config.KeyOrderBy), firestore.Asc)

	source, err := firestoresource.New(query,
		firestoresource.WithContextualLogger(logger),
		firestoresource.WithLocker(mu),
	)
	if err != nil {
		return err
	}

	return watch(cmd, v, logger, source, mu)
}
