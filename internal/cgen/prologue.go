package cgen

// prologue is the fixed C99 preamble spec.md §4.6 calls for: standard
// headers plus helper definitions for integer/float-to-string and a
// fatal-error reporter. Every helper here is static: the emitted file is a
// single self-contained translation unit (spec.md §1 Non-goals: "no
// separate compilation units").
//
// nlang_float_to_str must format doubles identically to
// internal/types.FormatFloat (fixed six decimal places, then trim
// trailing zeros down to one fractional digit, special-casing nan/inf) so
// that interpreter output and
// compiled output are byte-identical, per spec.md §8.
const prologue = `#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <math.h>
#include <stdint.h>

static void nlang_fatal(const char *msg) {
    fprintf(stderr, "runtime error: %s\n", msg);
    exit(2);
}

static char *nlang_int_to_str(int64_t v) {
    char *buf = malloc(32);
    snprintf(buf, 32, "%lld", (long long)v);
    return buf;
}

static char *nlang_float_to_str(double v) {
    char *buf = malloc(64);
    if (isnan(v)) {
        snprintf(buf, 64, "nan");
        return buf;
    }
    if (isinf(v)) {
        snprintf(buf, 64, v < 0 ? "-inf" : "inf");
        return buf;
    }
    snprintf(buf, 64, "%.6f", v);
    size_t len = strlen(buf);
    while (len > 0 && buf[len - 1] == '0') {
        buf[--len] = '\0';
    }
    if (len > 0 && buf[len - 1] == '.') {
        buf[len++] = '0';
        buf[len] = '\0';
    }
    return buf;
}

static char *nlang_bool_to_str(int v) {
    return v ? "true" : "false";
}

static char *nlang_strcat(const char *a, const char *b) {
    char *buf = malloc(strlen(a) + strlen(b) + 1);
    strcpy(buf, a);
    strcat(buf, b);
    return buf;
}

static int nlang_streq(const char *a, const char *b) {
    return strcmp(a, b) == 0;
}

static int64_t nlang_parse_int(const char *s) {
    char *end;
    long long v = strtoll(s, &end, 10);
    if (end == s || *end != '\0') {
        nlang_fatal("invalid integer literal passed to int()");
    }
    return (int64_t)v;
}

static double nlang_parse_float(const char *s) {
    char *end;
    double v = strtod(s, &end);
    if (end == s || *end != '\0') {
        nlang_fatal("invalid float literal passed to float()");
    }
    return v;
}

static char *nlang_strip_newline(char *s) {
    size_t len = strlen(s);
    if (len > 0 && s[len - 1] == '\n') {
        s[--len] = '\0';
    }
    if (len > 0 && s[len - 1] == '\r') {
        s[--len] = '\0';
    }
    return s;
}

static char *nlang_read_line(void) {
    char *buf = malloc(4096);
    if (fgets(buf, 4096, stdin) == NULL) {
        buf[0] = '\0';
    }
    return nlang_strip_newline(buf);
}

static int64_t nlang_idiv(int64_t a, int64_t b) {
    if (b == 0) {
        nlang_fatal("division by zero");
    }
    return a / b;
}

static int64_t nlang_imod(int64_t a, int64_t b) {
    if (b == 0) {
        nlang_fatal("modulo by zero");
    }
    return a % b;
}

static int64_t nlang_iabs(int64_t v) {
    return v < 0 ? -v : v;
}

static int64_t nlang_imax(int64_t a, int64_t b) {
    return a > b ? a : b;
}

static int64_t nlang_imin(int64_t a, int64_t b) {
    return a < b ? a : b;
}

static int64_t nlang_ipow(int64_t base, int64_t exp) {
    if (exp < 0) {
        nlang_fatal("pow: negative exponent on Int operands");
    }
    int64_t result = 1;
    for (int64_t i = 0; i < exp; i++) {
        result *= base;
    }
    return result;
}
`
