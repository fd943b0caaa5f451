package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// NewInvalidateCmd creates the invalidate command, which announces a
// registry update so workers drop cached results.
func NewInvalidateCmd() *cobra.Command {
	var tables []string
	cmd := &cobra.Command{
		Use:   "invalidate [application-number]...",
		Short: "Publish a registry update so cached results are dropped",
		Long: "Publish a registry.updated event. Workers drop every cached search page and the\n" +
			"cached record of each listed application.",
		Example: "  tmsearch invalidate 2020-000001 2020-000002 --table jiken_c_t",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			numbers := make([]string, 0, len(args))
			for _, a := range args {
				n, err := trademark.ParseApplicationNumber(a)
				if err != nil {
					return err
				}
				numbers = append(numbers, string(n))
			}
			topic := cliCtx.Config.Kafka.Topic
			if topic == "" {
				topic = kafka.TopicRegistryUpdates
			}
			if len(cliCtx.Config.Kafka.Brokers) == 0 {
				return errors.InvalidParam("kafka.brokers is not configured")
			}

			pub, err := cliCtx.OpenPublisher()
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			env, err := pub.PublishEvent(ctx, topic, kafka.EventRegistryUpdated, "tmsearch", kafka.RegistryUpdatedPayload{
				ApplicationNumbers: numbers,
				Tables:             tables,
				UpdatedAt:          time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			cliCtx.Logger.Info("Registry update published",
				logging.String("event_id", env.EventID),
				logging.String("topic", topic),
				logging.Int("applications", len(numbers)))
			PrintSuccess(cmd, fmt.Sprintf("published %s to %s (%d applications)", env.EventID, topic, len(numbers)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tables, "table", nil, "registry tables that changed")
	return cmd
}

//Personal.AI order the ending
