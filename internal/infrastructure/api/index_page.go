package api

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Virtual Try-On Studio</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
body { font-family: Inter, system-ui, -apple-system, Segoe UI, Roboto, sans-serif; }
.preview-box{width:100%;height:320px;background:#f3f4f6;border:2px dashed #d1d5db;display:flex;align-items:center;justify-content:center;overflow:hidden;cursor:pointer}
.preview-box img{max-width:100%;max-height:100%;object-fit:contain}
.loader{border:8px solid #f3f3f3;border-top:8px solid #6366f1;border-radius:50%;width:56px;height:56px;animation:spin 1.2s linear infinite}
@keyframes spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}
</style>
</head>
<body class="bg-gray-50 text-gray-800">
<div class="container mx-auto p-4 md:p-8 max-w-5xl">
<header class="text-center mb-8">
<h1 class="text-3xl md:text-4xl font-bold text-gray-900">Virtual Try-On Studio</h1>
<p class="text-gray-600 mt-2">Upload your photo and a product, then see how it suits you.</p>
</header>

<main class="bg-white p-6 md:p-8 rounded-2xl shadow-lg">
<section id="inputs">
<div class="grid grid-cols-1 md:grid-cols-2 gap-6 mb-6">
<div>
<label class="block text-lg font-semibold mb-2 text-gray-700">1. Your photo</label>
<div id="base-preview" class="preview-box rounded-lg"><span class="text-gray-500">Click to upload (JPG, PNG, WEBP, 10MB max)</span></div>
<input id="base-input" type="file" accept="image/jpeg,image/png,image/webp" class="hidden"/>
</div>
<div>
<label class="block text-lg font-semibold mb-2 text-gray-700">2. Product</label>
<div id="product-preview" class="preview-box rounded-lg"><span class="text-gray-500">Click to upload a product image</span></div>
<input id="product-input" type="file" accept="image/jpeg,image/png,image/webp" class="hidden"/>
<div class="flex gap-2 mt-3">
<input id="product-url" type="url" placeholder="or paste a product page URL" class="flex-1 border rounded-lg px-3 py-2"/>
<button id="fetch-btn" class="px-4 py-2 bg-gray-800 text-white rounded-lg disabled:opacity-50">Fetch</button>
</div>
</div>
</div>
<div class="text-center">
<button id="generate-btn" disabled class="px-8 py-3 bg-indigo-600 text-white rounded-lg font-bold shadow disabled:opacity-50 disabled:cursor-not-allowed">Try it on</button>
</div>
</section>

<section id="loading" class="hidden flex flex-col items-center py-12">
<div class="loader"></div>
<p class="mt-4 text-gray-600">Generating your look...</p>
</section>

<section id="result" class="hidden">
<div class="grid grid-cols-1 md:grid-cols-2 gap-6 mb-6">
<div class="relative preview-box rounded-lg" style="cursor:default">
<img id="result-base" alt="You"/>
<img id="result-overlay" alt="Product" class="absolute bottom-2 right-2 w-1/3 border-4 border-white rounded shadow" style="max-height:40%"/>
</div>
<div>
<h2 class="text-xl font-bold mb-2">Fit analysis <span id="confidence" class="ml-2 text-sm bg-indigo-100 text-indigo-700 px-2 py-1 rounded"></span></h2>
<p id="fit-analysis" class="text-gray-700 mb-4"></p>
<h3 class="font-semibold">Styling tips</h3><ul id="styling-tips" class="list-disc ml-5 mb-3"></ul>
<h3 class="font-semibold">Pairs well with</h3><ul id="complementary-items" class="list-disc ml-5 mb-3"></ul>
<h3 class="font-semibold">Occasions</h3><ul id="occasions" class="list-disc ml-5"></ul>
</div>
</div>
<div class="flex justify-center gap-4">
<button id="reset-btn" class="px-6 py-2 bg-indigo-600 text-white rounded-lg">Try another product</button>
<button id="clear-btn" class="px-6 py-2 bg-gray-200 rounded-lg">Start over</button>
</div>
</section>
</main>
</div>

<script>
let session = null;

async function call(method, path, body, isJSON) {
  const opts = { method: method, headers: {} };
  if (body) {
    if (isJSON) { opts.headers['Content-Type'] = 'application/json'; opts.body = JSON.stringify(body); }
    else { opts.body = body; }
  }
  const res = await fetch(path, opts);
  const data = await res.json().catch(() => ({}));
  if (!res.ok) { throw new Error(data.error || ('Request failed (' + res.status + ')')); }
  return data;
}

function setPreview(id, ref) {
  const box = document.getElementById(id);
  if (!ref) return;
  box.innerHTML = '';
  const img = document.createElement('img');
  img.src = ref;
  box.appendChild(img);
}

function fillList(id, items) {
  const ul = document.getElementById(id);
  ul.innerHTML = '';
  (items || []).forEach(t => { const li = document.createElement('li'); li.textContent = t; ul.appendChild(li); });
}

function render(s) {
  session = s;
  setPreview('base-preview', s.baseImage);
  setPreview('product-preview', s.productImage);
  document.getElementById('generate-btn').disabled = !s.canGenerate;
  document.getElementById('inputs').classList.toggle('hidden', s.processing || !!s.result);
  document.getElementById('loading').classList.toggle('hidden', !s.processing);
  document.getElementById('result').classList.toggle('hidden', !s.result);
  if (s.result) {
    const a = s.result.analysis;
    document.getElementById('result-base').src = s.result.renderedImage || s.result.baseImage;
    document.getElementById('result-overlay').src = s.result.overlayImage;
    document.getElementById('result-overlay').classList.toggle('hidden', !!s.result.renderedImage);
    document.getElementById('fit-analysis').textContent = a.fitAnalysis;
    document.getElementById('confidence').textContent = a.confidence + '/10';
    fillList('styling-tips', a.stylingTips);
    fillList('complementary-items', a.complementaryItems);
    fillList('occasions', a.occasions);
  }
}

async function upload(kind, file) {
  const form = new FormData();
  form.append('image', file);
  try { render(await call('PUT', '/api/sessions/' + session.id + '/' + kind, form)); }
  catch (e) { alert(e.message); }
}

function wireUpload(previewId, inputId, kind) {
  const input = document.getElementById(inputId);
  document.getElementById(previewId).addEventListener('click', () => input.click());
  input.addEventListener('change', () => { if (input.files[0]) upload(kind, input.files[0]); input.value = ''; });
}

wireUpload('base-preview', 'base-input', 'base-image');
wireUpload('product-preview', 'product-input', 'product-image');

document.getElementById('fetch-btn').addEventListener('click', async (ev) => {
  const url = document.getElementById('product-url').value.trim();
  if (!url) return;
  ev.target.disabled = true;
  try { render(await call('POST', '/api/sessions/' + session.id + '/product-url', { url: url }, true)); }
  catch (e) { alert(e.message); }
  finally { ev.target.disabled = false; }
});

document.getElementById('generate-btn').addEventListener('click', async () => {
  render(Object.assign({}, session, { processing: true, canGenerate: false }));
  try { render(await call('POST', '/api/sessions/' + session.id + '/generate')); }
  catch (e) { alert(e.message); render(await call('GET', '/api/sessions/' + session.id)); }
});

document.getElementById('reset-btn').addEventListener('click', async () => {
  render(await call('POST', '/api/sessions/' + session.id + '/reset'));
});

document.getElementById('clear-btn').addEventListener('click', async () => {
  document.getElementById('base-preview').innerHTML = '<span class="text-gray-500">Click to upload (JPG, PNG, WEBP, 10MB max)</span>';
  document.getElementById('product-preview').innerHTML = '<span class="text-gray-500">Click to upload a product image</span>';
  document.getElementById('product-url').value = '';
  render(await call('POST', '/api/sessions/' + session.id + '/clear'));
});

// reloads reuse the tab's session until the server has evicted it
async function openSession() {
  const saved = sessionStorage.getItem('tryonSessionId');
  if (saved) {
    try { return await call('GET', '/api/sessions/' + encodeURIComponent(saved)); }
    catch (e) { sessionStorage.removeItem('tryonSessionId'); }
  }
  const s = await call('POST', '/api/sessions');
  sessionStorage.setItem('tryonSessionId', s.id);
  return s;
}

openSession().then(render).catch(e => alert(e.message));
</script>
</body>
</html>`
