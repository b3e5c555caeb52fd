package antisqli

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Konsultn-Engineering/antisqli/dialect"
	"github.com/Konsultn-Engineering/antisqli/param"
	"github.com/Konsultn-Engineering/antisqli/placeholder"
	"github.com/Konsultn-Engineering/antisqli/value"
)

type recorder struct {
	got *Query
	err error
}

func (r *recorder) Bind(q *Query) error {
	if r.err != nil {
		return r.err
	}
	r.got = q
	return nil
}

func TestParameterize_ConcreteScenario(t *testing.T) {
	q, err := Parameterize("SELECT * FROM users WHERE name={0} AND age={1}", "O'Brien", 42)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users WHERE name=@AntiSQLiParam0 AND age=@AntiSQLiParam1", q.Text)
	assert.Equal(t, param.Set{
		{Name: "AntiSQLiParam0", Value: value.Text("O'Brien"), Type: param.String},
		{Name: "AntiSQLiParam1", Value: value.Int(42), Type: param.Int64},
	}, q.Parameters)
}

func TestParameterize_RepeatedToken(t *testing.T) {
	q, err := Parameterize("WHERE a={0} OR b={0}", 5)
	require.NoError(t, err)

	assert.Equal(t, "WHERE a=@AntiSQLiParam0 OR b=@AntiSQLiParam0", q.Text)
	require.Len(t, q.Parameters, 1)
	assert.Equal(t, q.Parameters, q.Bindings())
}

func TestParameterize_Validation(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		want     error
	}{
		{"empty template", "", []any{1}, ErrEmptyTemplate},
		{"blank template", " \t\n", []any{1}, ErrEmptyTemplate},
		{"nil args", "SELECT {0}", nil, ErrEmptyArguments},
		{"empty args", "SELECT {0}", []any{}, ErrEmptyArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parameterize(tt.template, tt.args...)
			assert.Nil(t, q)
			assert.ErrorIs(t, err, tt.want)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, OpValidate, e.Op)
		})
	}
}

func TestParameterize_TemplateCheckedBeforeArguments(t *testing.T) {
	_, err := Parameterize("")
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestParameterize_UnderSuppliedArguments(t *testing.T) {
	q, err := Parameterize("SELECT * FROM t WHERE a={0} AND b={1}", "x")
	assert.Nil(t, q)
	require.ErrorIs(t, err, ErrTokenCountMismatch)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, OpSubstitute, e.Op)

	var te *placeholder.TokenError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Index)
	assert.Equal(t, "{1}", te.Raw)
}

func TestParameterize_MalformedToken(t *testing.T) {
	_, err := Parameterize("SELECT * FROM t WHERE a={zero}", 1)
	assert.ErrorIs(t, err, ErrTokenCountMismatch)
	assert.ErrorIs(t, err, placeholder.ErrMalformedToken)
}

func TestParameterize_ExtraArgumentsAreBound(t *testing.T) {
	q, err := Parameterize("SELECT {0}", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "SELECT @AntiSQLiParam0", q.Text)
	assert.Len(t, q.Parameters, 2)
}

func TestParameterize_Strict(t *testing.T) {
	e := New(WithStrict(true))
	_, err := e.Parameterize("SELECT {0}", 1, 2)
	assert.ErrorIs(t, err, placeholder.ErrUnusedParameter)
	assert.ErrorIs(t, err, ErrTokenCountMismatch)
}

func TestParameterize_NoLeak(t *testing.T) {
	payloads := []any{
		"'; DROP TABLE users; --",
		"x' OR '1'='1",
		"{1}",
		"@AntiSQLiParam1",
		"Robert'); DELETE FROM students;--",
	}
	template := "SELECT * FROM t WHERE a={0} AND b={1} AND c={2} AND d={3} AND e={4}"

	q, err := Parameterize(template, payloads...)
	require.NoError(t, err)

	for i, p := range payloads {
		s := p.(string)
		if strings.HasPrefix(s, "@"+param.Prefix) {
			continue
		}
		assert.NotContains(t, q.Text, s, "argument %d leaked into text", i)
	}
	assert.Equal(t, "SELECT * FROM t WHERE a=@AntiSQLiParam0 AND b=@AntiSQLiParam1 AND c=@AntiSQLiParam2 AND d=@AntiSQLiParam3 AND e=@AntiSQLiParam4", q.Text)
}

func TestParameterize_TokenCoverage(t *testing.T) {
	for k := 0; k < 5; k++ {
		var b strings.Builder
		args := make([]any, k+2)
		for i := 0; i <= k; i++ {
			b.WriteString(" c" + strconv.Itoa(i) + "={" + strconv.Itoa(i) + "}")
			args[i] = i
		}
		args[k+1] = "unused"

		q, err := Parameterize("SELECT *"+b.String(), args...)
		require.NoError(t, err)

		last := -1
		for i := 0; i <= k; i++ {
			pos := strings.Index(q.Text, "c"+strconv.Itoa(i)+"=@"+param.Name(i))
			require.GreaterOrEqual(t, pos, 0, "reference %d missing", i)
			assert.Greater(t, pos, last)
			last = pos
		}
	}
}

func TestParameterize_Dialects(t *testing.T) {
	tests := []struct {
		dialect  dialect.Dialect
		text     string
		bindings []string
	}{
		{dialect.NewSQLServerDialect(), "a=@AntiSQLiParam0 b=@AntiSQLiParam1 c=@AntiSQLiParam0", []string{"AntiSQLiParam0", "AntiSQLiParam1"}},
		{dialect.NewPostgresDialect(), "a=$1 b=$2 c=$1", []string{"AntiSQLiParam0", "AntiSQLiParam1"}},
		{dialect.NewMySQLDialect(), "a=? b=? c=?", []string{"AntiSQLiParam0", "AntiSQLiParam1", "AntiSQLiParam0"}},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			q, err := New(WithDialect(tt.dialect)).Parameterize("a={0} b={1} c={0}", "x", "y")
			require.NoError(t, err)
			assert.Equal(t, tt.text, q.Text)
			assert.Equal(t, tt.bindings, q.Bindings().Names())
			assert.Equal(t, tt.dialect.Positional(), q.Positional())
		})
	}
}

func TestParameterize_DialectLimit(t *testing.T) {
	args := make([]any, 2101)
	for i := range args {
		args[i] = i
	}
	_, err := Parameterize("SELECT {0}", args...)
	assert.ErrorIs(t, err, ErrMaterialize)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, OpMaterialize, e.Op)
}

func TestParameterize_PositionalOccurrenceLimit(t *testing.T) {
	mysql := dialect.NewMySQLDialect()
	limit := mysql.MaxParameters()

	tests := []struct {
		name        string
		dialect     dialect.Dialect
		occurrences int
		wantErr     bool
	}{
		{"positional at limit", mysql, limit, false},
		{"positional over limit", mysql, limit + 1, true},
		{"named reuses one parameter", dialect.NewSQLServerDialect(), limit + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := "SELECT " + strings.Repeat("{0},", tt.occurrences) + "1"
			q, err := New(WithDialect(tt.dialect)).Parameterize(template, 7)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, q.Occurrences, tt.occurrences)
				return
			}

			assert.ErrorIs(t, err, ErrMaterialize)
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, OpMaterialize, e.Op)
			assert.Contains(t, err.Error(), "placeholder occurrences")
		})
	}
}

func TestParameterizeValues_ValidatesLikeParameterize(t *testing.T) {
	e := New()
	tests := []struct {
		template string
		n        int
		want     error
	}{
		{"  ", 1, ErrEmptyTemplate},
		{"SELECT {0}", 0, ErrEmptyArguments},
	}

	for _, tt := range tests {
		vals := make([]value.Value, tt.n)
		anys := make([]any, tt.n)
		for i := range vals {
			vals[i] = value.Int(int64(i))
			anys[i] = i
		}
		_, errValues := e.ParameterizeValues(tt.template, vals)
		_, errAny := e.Parameterize(tt.template, anys...)
		assert.ErrorIs(t, errValues, tt.want)
		assert.Equal(t, errAny.Error(), errValues.Error())
	}
}

func TestParameterize_FallbackAbsorbed(t *testing.T) {
	type opaque struct{ A int }
	q, err := Parameterize("SELECT {0}, {1}", opaque{A: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, param.Parameter{Name: "AntiSQLiParam0", Value: value.Text("{1}"), Type: param.String}, q.Parameters[0])
	assert.Equal(t, param.Parameter{Name: "AntiSQLiParam1", Value: value.Null(), Type: param.String}, q.Parameters[1])
}

func TestParameterizeValues(t *testing.T) {
	e := New(WithInferrer(param.UntypedInferrer{}))
	q, err := e.ParameterizeValues("x={0}", []value.Value{value.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, param.Untyped, q.Parameters[0].Type)

	_, err = e.ParameterizeValues("x={0}", nil)
	assert.ErrorIs(t, err, ErrEmptyArguments)
	_, err = e.ParameterizeValues("  ", []value.Value{value.Null()})
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestLoad(t *testing.T) {
	r := &recorder{}
	require.NoError(t, New().Load(r, "SELECT {0}", "a"))
	require.NotNil(t, r.got)
	assert.Equal(t, "SELECT @AntiSQLiParam0", r.got.Text)
}

func TestLoad_TargetUntouchedOnFailure(t *testing.T) {
	r := &recorder{}
	err := New().Load(r, "SELECT {0} {1}", "a")
	assert.ErrorIs(t, err, ErrTokenCountMismatch)
	assert.Nil(t, r.got)
}

func TestLoad_BindError(t *testing.T) {
	boom := errors.New("unsupported native type")
	err := New().Load(&recorder{err: boom}, "SELECT {0}", "a")
	assert.ErrorIs(t, err, boom)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, OpBind, e.Op)
}

func TestEngine_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New(WithLogger(zap.New(core)))

	_, err := e.Parameterize("SELECT {3}", "secret-value")
	require.Error(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "parameterize failed", logs.All()[0].Message)
	assert.NotContains(t, logs.All()[0].ContextMap()["error"], "secret-value")
}

func TestParameterize_Concurrent(t *testing.T) {
	e := New(WithDialect(dialect.NewPostgresDialect()))
	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for g := 0; g < 64; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			q, err := e.Parameterize("a={0} b={1}", g, "v"+strconv.Itoa(g))
			if err != nil {
				errs <- err
				return
			}
			if q.Text != "a=$1 b=$2" || q.Parameters[0].Value.Any() != int64(g) {
				errs <- errors.New("unexpected result for goroutine " + strconv.Itoa(g))
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
