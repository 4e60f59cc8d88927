// Package cli реализует интерактивное меню конвертера в терминале.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"currency_converter/internal/converter"
	"currency_converter/internal/external"
	"currency_converter/internal/models"
	"currency_converter/internal/resolver"
	"currency_converter/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	optionQuit   = 0
	optionCustom = 7
)

// Converter - то, что нужно меню от сервиса конвертации
type Converter interface {
	ConvertPreset(ctx context.Context, option int, amount decimal.Decimal) (*models.Conversion, error)
	Quote(ctx context.Context, from, to string) (*models.ConversionRate, error)
	ConvertWithRate(ctx context.Context, rate *models.ConversionRate, amount decimal.Decimal) *models.Conversion
	SupportedCurrencies() []resolver.Entry
}

// CLI - цикл "меню -> ввод -> результат"
type CLI struct {
	converter Converter
	scanner   *bufio.Scanner
	out       io.Writer
	logger    *logrus.Logger
}

func New(conv Converter, in io.Reader, out io.Writer, logger *logrus.Logger) *CLI {
	return &CLI{
		converter: conv,
		scanner:   bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run показывает меню, пока пользователь не выберет выход или не закончится ввод.
// Ошибки конвертации выводятся пользователю и не прерывают цикл
func (c *CLI) Run(ctx context.Context) error {
	for {
		c.printMenu()

		line, ok := c.readLine()
		if !ok {
			break
		}

		option, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			c.println("Opção inválida! Digite apenas números.")
			continue
		}

		if option == optionQuit {
			c.println("Saindo do programa...")
			break
		}

		var done bool
		switch {
		case option == optionCustom:
			done = c.runCustom(ctx)
		default:
			preset, found := converter.FindPreset(option)
			if !found {
				c.println("Opção inválida!")
				continue
			}
			done = c.runPreset(ctx, preset)
		}

		if done {
			break
		}
	}

	c.println("=== Conversor finalizado ===")

	if err := c.scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Возвращает true, если ввод закончился
func (c *CLI) runPreset(ctx context.Context, preset converter.Preset) bool {
	amount, ok := c.readAmount()
	if !ok {
		return true
	}

	conversion, err := c.converter.ConvertPreset(ctx, preset.Option, amount)
	if err != nil {
		c.printError(err)
		return false
	}

	c.printUpdatedAt(conversion.Rate)
	c.printf("%s %s = %s %s\n",
		utils.FormatAmount(amount), preset.FromUnit,
		utils.FormatAmount(conversion.Result), preset.ToUnit)

	return false
}

func (c *CLI) runCustom(ctx context.Context) bool {
	c.printSupported()

	c.print("Digite a moeda de origem (nome ou sigla): ")
	from, ok := c.readLine()
	if !ok {
		return true
	}

	c.print("Digite a moeda de destino (nome ou sigla): ")
	to, ok := c.readLine()
	if !ok {
		return true
	}

	// Курс запрашиваем до ввода суммы, чтобы не спрашивать сумму впустую
	rate, err := c.converter.Quote(ctx, from, to)
	if err != nil {
		c.printError(err)
		return false
	}
	c.printUpdatedAt(*rate)

	amount, ok := c.readAmount()
	if !ok {
		return true
	}

	conversion := c.converter.ConvertWithRate(ctx, rate, amount)
	c.printf("%s %s = %s %s\n",
		utils.FormatAmount(amount), conversion.From,
		utils.FormatAmount(conversion.Result), conversion.To)

	return false
}

// Спрашиваем сумму, пока она не разберётся
func (c *CLI) readAmount() (decimal.Decimal, bool) {
	for {
		c.print("Digite o valor a ser convertido: ")

		line, ok := c.readLine()
		if !ok {
			return decimal.Zero, false
		}

		amount, err := utils.ParseAmount(line)
		if err == nil {
			return amount, true
		}

		c.logger.WithError(err).Debug("Invalid amount entered")
		c.println("Valor inválido! Digite apenas números.")
	}
}

func (c *CLI) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

func (c *CLI) printError(err error) {
	var lookupErr *external.LookupError

	switch {
	case errors.Is(err, converter.ErrUnresolvableDesignator):
		c.println("Moeda inválida! Veja a lista de moedas suportadas.")
		c.printSupported()
	case errors.Is(err, external.ErrUnknownTargetCurrency) && errors.As(err, &lookupErr):
		c.printf("Erro: moeda %s não encontrada.\n", lookupErr.Currency)
	case errors.Is(err, external.ErrProviderReportedFailure):
		c.println("Erro: falha ao obter dados da API.")
	case errors.Is(err, external.ErrTransportFailure) && errors.As(err, &lookupErr) && lookupErr.Err != nil:
		c.printf("Erro ao buscar cotação: %v\n", lookupErr.Err)
	default:
		c.printf("Erro ao buscar cotação: %v\n", err)
	}
}

func (c *CLI) printMenu() {
	c.println()
	c.println("=== Conversor de Moedas ===")
	c.println("Escolha a opção de conversão:")
	for _, p := range converter.Presets() {
		c.printf("%d - %s\n", p.Option, p.Label)
	}
	c.printf("%d - Conversão personalizada (qualquer moeda ou nome)\n", optionCustom)
	c.printf("%d - Sair\n", optionQuit)
	c.print("Digite a opção: ")
}

func (c *CLI) printSupported() {
	c.println("Moedas suportadas (nome ou sigla):")
	for _, entry := range c.converter.SupportedCurrencies() {
		c.printf("- %s (%s)\n", entry.Name, entry.Code)
	}
}

func (c *CLI) printUpdatedAt(rate models.ConversionRate) {
	if rate.UpdatedAt != "" {
		c.printf("Cotação atualizada em: %s\n", rate.UpdatedAt)
	}
}

func (c *CLI) print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

func (c *CLI) println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *CLI) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}
